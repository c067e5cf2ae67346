package sdk

import (
	"context"
	"strings"
	"sync"

	"github.com/fitroom/fitroom-go/cache"
)

// Cache keys for social resources. Entity keys hold a single Look or
// SocialProfile; list keys hold the fetched pages of a cursor feed as a
// []CursorPage[T]. Togglers patch every list under the matching prefix,
// so feeds registered with these helpers pick up optimistic updates
// without extra wiring.
const (
	lookListPrefix    = "social:looks:"
	profileListPrefix = "social:profiles:"

	// KeyLookFeed is the list key for the shared published-looks feed.
	KeyLookFeed = lookListPrefix + "feed"
)

// LookCacheKey returns the entity key for a single look.
func LookCacheKey(lookID string) string { return "social:look:" + lookID }

// ProfileCacheKey returns the entity key for a user's social profile.
func ProfileCacheKey(userID string) string { return "social:profile:" + userID }

// ProfileLooksCacheKey returns the list key for one user's published looks.
func ProfileLooksCacheKey(userID string) string { return lookListPrefix + "profile:" + userID }

// FollowersCacheKey returns the list key for a user's followers.
func FollowersCacheKey(userID string) string { return profileListPrefix + userID + ":followers" }

// FollowingCacheKey returns the list key for the users a user follows.
func FollowingCacheKey(userID string) string { return profileListPrefix + userID + ":following" }

// keyedMutex hands out one mutex per key so concurrent toggles on the
// same entity run one at a time while toggles on different entities
// proceed independently. Entries are refcounted and dropped once no
// goroutine holds or waits on them, so the map stays bounded by the
// number of in-flight toggles rather than every entity ever touched.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[string]*keyedLock{}
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()
	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// LikeToggler applies the optimistic like protocol over a cache: flip
// the flag and adjust the count immediately, then reconcile with the
// server's look or roll the touched keys back verbatim.
type LikeToggler struct {
	social *SocialClient
	cache  *cache.Cache
	locks  keyedMutex
}

// NewLikeToggler returns a toggler writing through the given cache.
func NewLikeToggler(social *SocialClient, c *cache.Cache) *LikeToggler {
	return &LikeToggler{social: social, cache: c}
}

// Toggle likes or unlikes the look depending on its state before the
// mutation. Toggles on the same look are serialized, so a second tap
// waits for the first round trip and then acts on the reconciled state.
func (t *LikeToggler) Toggle(ctx context.Context, look Look) (Look, error) {
	unlock := t.locks.lock(look.ID)
	defer unlock()

	// The cached entity wins over the caller's copy; an earlier toggle
	// may have reconciled while this one waited for the lock.
	if cached, ok := cache.Get[Look](t.cache, LookCacheKey(look.ID)); ok {
		look = cached
	}
	wasLiked := look.IsLikedByMe

	keys := append(listKeysWithPrefix(t.cache, lookListPrefix), LookCacheKey(look.ID))
	m := t.cache.Begin(keys...)

	patched := look
	patched.IsLikedByMe = !wasLiked
	if wasLiked {
		if patched.LikesCount > 0 {
			patched.LikesCount--
		}
	} else {
		patched.LikesCount++
	}
	cache.Set(t.cache, LookCacheKey(look.ID), patched)
	patchLookLists(t.cache, patched)

	var (
		fromServer Look
		err        error
	)
	if wasLiked {
		fromServer, err = t.social.Unlike(ctx, look.ID)
	} else {
		fromServer, err = t.social.Like(ctx, look.ID)
	}
	if err != nil {
		m.Rollback()
		return Look{}, err
	}

	cache.Set(t.cache, LookCacheKey(look.ID), fromServer)
	patchLookLists(t.cache, fromServer)
	return fromServer, nil
}

// FollowToggler applies the optimistic follow protocol to a profile and
// every cached profile list containing it.
type FollowToggler struct {
	social *SocialClient
	cache  *cache.Cache
	locks  keyedMutex
}

// NewFollowToggler returns a toggler writing through the given cache.
func NewFollowToggler(social *SocialClient, c *cache.Cache) *FollowToggler {
	return &FollowToggler{social: social, cache: c}
}

// Toggle follows or unfollows the profile depending on its state before
// the mutation, serialized per user id.
func (t *FollowToggler) Toggle(ctx context.Context, profile SocialProfile) (SocialProfile, error) {
	unlock := t.locks.lock(profile.ID)
	defer unlock()

	if cached, ok := cache.Get[SocialProfile](t.cache, ProfileCacheKey(profile.ID)); ok {
		profile = cached
	}
	wasFollowing := profile.IsFollowing

	keys := append(listKeysWithPrefix(t.cache, profileListPrefix), ProfileCacheKey(profile.ID))
	m := t.cache.Begin(keys...)

	patched := profile
	patched.IsFollowing = !wasFollowing
	if wasFollowing {
		if patched.FollowersCount > 0 {
			patched.FollowersCount--
		}
	} else {
		patched.FollowersCount++
	}
	cache.Set(t.cache, ProfileCacheKey(profile.ID), patched)
	patchProfileLists(t.cache, patched)

	var (
		relation FollowRelation
		err      error
	)
	if wasFollowing {
		relation, err = t.social.Unfollow(ctx, profile.ID)
	} else {
		relation, err = t.social.Follow(ctx, profile.ID)
	}
	if err != nil {
		m.Rollback()
		return SocialProfile{}, err
	}

	// The relation is authoritative for the follow state and follower
	// count; the rest of the profile keeps its optimistic shape.
	patched.IsFollowing = relation.IsFollowing
	patched.FollowersCount = relation.FollowersCount
	cache.Set(t.cache, ProfileCacheKey(profile.ID), patched)
	patchProfileLists(t.cache, patched)
	return patched, nil
}

func listKeysWithPrefix(c *cache.Cache, prefix string) []string {
	var out []string
	for _, key := range c.Keys() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out
}

func patchLookLists(c *cache.Cache, look Look) {
	for _, key := range listKeysWithPrefix(c, lookListPrefix) {
		cache.Update(c, key, func(pages []CursorPage[Look]) []CursorPage[Look] {
			return patchPages(pages, look.ID, func(item Look) string { return item.ID }, look)
		})
	}
}

func patchProfileLists(c *cache.Cache, profile SocialProfile) {
	for _, key := range listKeysWithPrefix(c, profileListPrefix) {
		cache.Update(c, key, func(pages []CursorPage[SocialProfile]) []CursorPage[SocialProfile] {
			return patchPages(pages, profile.ID, func(item SocialProfile) string { return item.ID }, profile)
		})
	}
}

// patchPages replaces every occurrence of id across the pages,
// rebuilding the slices so earlier snapshots stay intact.
func patchPages[T any](pages []CursorPage[T], id string, idOf func(T) string, replacement T) []CursorPage[T] {
	out := make([]CursorPage[T], len(pages))
	for i, page := range pages {
		items := make([]T, len(page.Items))
		for j, item := range page.Items {
			if idOf(item) == id {
				items[j] = replacement
			} else {
				items[j] = item
			}
		}
		page.Items = items
		out[i] = page
	}
	return out
}
