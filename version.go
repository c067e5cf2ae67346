package sdk

// Version is the published SDK version.
// 0.4.0: Breaking - payment polling returns a three-valued PaymentOutcome;
// an exhausted attempt budget is reported as inconclusive, not failed.
// 0.3.0: Serialize like/follow toggles per entity id instead of letting
// rapid toggles race the server response.
// 0.2.0: Add server-side look drafts with autosave coordination.
const Version = "0.4.0"
