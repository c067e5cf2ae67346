package sdk

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitroom/fitroom-go/routes"
)

// Gender is the body-profile gender input for the try-on model.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// TryOnRequest bundles the person/clothing image pair and the body
// measurements the render needs. Image bytes are treated as opaque; any
// resizing happens before the SDK.
type TryOnRequest struct {
	PersonImage   io.Reader
	ClothingImage io.Reader
	ClothingName  string
	ClothingSize  string
	HeightCm      int
	WeightKg      int
	Gender        Gender
	AgeYears      int
}

// TryOnOutput is one rendered view of the result.
type TryOnOutput struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// TryOnResult is the finished render plus the credit accounting for it.
type TryOnResult struct {
	JobID             string        `json:"jobId"`
	ResultImageBase64 string        `json:"resultImageBase64"`
	ResultMimeType    string        `json:"resultMimeType"`
	CreditsSpent      int64         `json:"creditsSpent"`
	RemainingCredits  int64         `json:"remainingCredits"`
	Outputs           []TryOnOutput `json:"outputs,omitempty"`
}

// StyleHint is a single styling suggestion for a finished render.
type StyleHint struct {
	Style  string `json:"style"`
	Reason string `json:"reason"`
}

// TryOnClient provides methods for try-on renders and style hints.
//
// A 402 from Analyze means the account has no credits left; check with
// IsPaymentRequired and route the user to billing.
type TryOnClient struct {
	client *Client
}

// ensureInitialized returns an error if the client is not properly initialized.
func (c *TryOnClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: try-on client not initialized")
	}
	return nil
}

// Analyze submits a person/clothing pair for rendering and blocks until
// the server answers with the result.
func (c *TryOnClient) Analyze(ctx context.Context, req TryOnRequest) (TryOnResult, error) {
	if err := c.ensureInitialized(); err != nil {
		return TryOnResult{}, err
	}
	if req.PersonImage == nil || req.ClothingImage == nil {
		return TryOnResult{}, ConfigError{Reason: "person and clothing images required"}
	}
	if strings.TrimSpace(req.ClothingName) == "" {
		return TryOnResult{}, ConfigError{Reason: "clothing name required"}
	}
	httpReq, err := c.client.newFormRequest(ctx, http.MethodPost, routes.TryOnAnalyze, func(w *multipart.Writer) error {
		person, err := w.CreateFormFile("personImage", "person.jpg")
		if err != nil {
			return err
		}
		if _, err := io.Copy(person, req.PersonImage); err != nil {
			return err
		}
		clothing, err := w.CreateFormFile("clothingImage", "clothing.jpg")
		if err != nil {
			return err
		}
		if _, err := io.Copy(clothing, req.ClothingImage); err != nil {
			return err
		}
		fields := map[string]string{
			"clothingName": req.ClothingName,
			"clothingSize": req.ClothingSize,
			"heightCm":     strconv.Itoa(req.HeightCm),
			"weightKg":     strconv.Itoa(req.WeightKg),
			"gender":       string(req.Gender),
			"ageYears":     strconv.Itoa(req.AgeYears),
		}
		for name, value := range fields {
			if err := w.WriteField(name, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return TryOnResult{}, err
	}
	resp, err := c.client.send(httpReq)
	if err != nil {
		return TryOnResult{}, err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	var result TryOnResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return TryOnResult{}, err
	}
	return result, nil
}

// StyleHints asks for styling suggestions for a finished render.
func (c *TryOnClient) StyleHints(ctx context.Context, jobID string) ([]StyleHint, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, ConfigError{Reason: "job id required"}
	}
	payload := struct {
		JobID string `json:"jobId"`
	}{JobID: jobID}
	var resp struct {
		Hints []StyleHint `json:"hints"`
	}
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.TryOnStyleHints, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Hints, nil
}
