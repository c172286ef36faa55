// Package drug queries the MFDS e-drug (e약은요) open API for medicine leaflets.
package drug

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoMatch means the API answered but listed no item for the name.
var ErrNoMatch = errors.New("drug not found")

// Info is the subset of an item the tool reports.
type Info struct {
	EntpName        string `json:"entpName"`
	ItemName        string `json:"itemName"`
	EfcyQesitm      string `json:"efcyQesitm"`
	UseMethodQesitm string `json:"useMethodQesitm"`
	AtpnQesitm      string `json:"atpnQesitm"`
	SeQesitm        string `json:"seQesitm"`
}

// APIError carries a non-"00" result code from the response header.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("drug API error %s: %s", e.Code, e.Message)
}

type apiResponse struct {
	Header struct {
		ResultCode string `json:"resultCode"`
		ResultMsg  string `json:"resultMsg"`
	} `json:"header"`
	Body struct {
		Items []Info `json:"items"`
	} `json:"body"`
}

type Client struct {
	baseURL    string
	serviceKey string
	numOfRows  int
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey string, numOfRows int, timeout time.Duration) *Client {
	if numOfRows <= 0 {
		numOfRows = 10
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		numOfRows:  numOfRows,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup searches by item name and returns the best matching item.
func (c *Client) Lookup(ctx context.Context, name string) (Info, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Info{}, fmt.Errorf("invalid drug API url: %w", err)
	}
	q := u.Query()
	q.Set("serviceKey", c.serviceKey)
	q.Set("itemName", name)
	q.Set("type", "json")
	q.Set("numOfRows", strconv.Itoa(c.numOfRows))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Info{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("drug API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Info{}, fmt.Errorf("failed to parse drug API response: %w", err)
	}
	if apiResp.Header.ResultCode != "00" {
		msg := apiResp.Header.ResultMsg
		if msg == "" {
			msg = "Unknown error"
		}
		return Info{}, &APIError{Code: apiResp.Header.ResultCode, Message: msg}
	}
	if len(apiResp.Body.Items) == 0 {
		return Info{}, fmt.Errorf("%w: %s", ErrNoMatch, name)
	}
	if item, ok := FindMatch(apiResp.Body.Items, name); ok {
		return item, nil
	}
	return apiResp.Body.Items[0], nil
}

// FindMatch returns the first item whose name contains, or is contained in, name.
func FindMatch(items []Info, name string) (Info, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, item := range items {
		itemName := strings.ToLower(strings.TrimSpace(item.ItemName))
		if itemName == "" {
			continue
		}
		if strings.Contains(itemName, needle) || strings.Contains(needle, itemName) {
			return item, true
		}
	}
	return Info{}, false
}

// Format renders the leaflet summary shown to the user.
func (i Info) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "약물명: %s\n", orUnknown(i.ItemName))
	fmt.Fprintf(&b, "제조사: %s\n\n", orUnknown(i.EntpName))
	fmt.Fprintf(&b, "효능효과: %s...\n\n", truncate(orUnknown(i.EfcyQesitm), 300))
	fmt.Fprintf(&b, "사용방법: %s...\n\n", truncate(orUnknown(i.UseMethodQesitm), 200))
	fmt.Fprintf(&b, "주의사항: %s...\n\n", truncate(orUnknown(i.AtpnQesitm), 200))
	fmt.Fprintf(&b, "부작용: %s...", truncate(orUnknown(i.SeQesitm), 200))
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "정보없음"
	}
	return s
}

// truncate cuts by runes, the leaflets are mostly Hangul.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
