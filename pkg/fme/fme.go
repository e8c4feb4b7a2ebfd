package fme

import (
	"fmt"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/flagscope/flagscope/internal/utils"
	"github.com/flagscope/flagscope/pkg/inventory"
	"github.com/flagscope/flagscope/pkg/whttp"
)

const (
	defaultAPIBase      = "https://api.split.io/internal/api/v2"
	defaultIdentityBase = "https://app.harness.io/ng/api"
)

// Config carries the run-scoped credentials plus overrides used by tests.
type Config struct {
	Token        string
	AccountID    string
	APIBase      string
	IdentityBase string
	HTTPClient   *retryablehttp.Client
}

// Client talks to the FME API and the identity endpoint for one report run.
// It is not safe for concurrent use; a run is strictly sequential.
type Client struct {
	token        string
	accountID    string
	apiBase      string
	identityBase string
	http         *retryablehttp.Client

	// ownerCache memoizes owner-id lookups for the lifetime of the client.
	// It grows monotonically and is never evicted; a run is short-lived and
	// the number of distinct owners is finite.
	ownerCache map[string]string
}

func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.IdentityBase == "" {
		cfg.IdentityBase = defaultIdentityBase
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = whttp.NewClient()
	}
	return &Client{
		token:        cfg.Token,
		accountID:    cfg.AccountID,
		apiBase:      cfg.APIBase,
		identityBase: cfg.IdentityBase,
		http:         cfg.HTTPClient,
		ownerCache:   make(map[string]string),
	}
}

// ListWorkspaces fetches the workspace listing. A failure here is fatal to
// the run; the caller decides how to stop.
func (c *Client) ListWorkspaces() (gjson.Result, error) {
	return c.getJSON(c.apiBase+"/workspaces", c.bearerHeaders(), nil)
}

// ListFlags fetches the flag listing for one workspace. The caller degrades
// a failure to an empty flag list for that workspace only.
func (c *Client) ListFlags(workspaceID string) (gjson.Result, error) {
	return c.getJSON(c.apiBase+"/splits/ws/"+workspaceID, c.bearerHeaders(), nil)
}

// FetchInventory walks every workspace sequentially, in listing order, and
// builds the normalized inventory plus the running aggregates.
func (c *Client) FetchInventory() ([]inventory.WorkspaceFlags, *inventory.Aggregates, error) {
	payload, err := c.ListWorkspaces()
	if err != nil {
		return nil, nil, fmt.Errorf("fetching workspaces: %w", err)
	}

	agg := &inventory.Aggregates{}
	var out []inventory.WorkspaceFlags

	for _, raw := range inventory.ToList(payload) {
		ws := inventory.Workspace{
			ID:   raw.Get("id").String(),
			Name: "N/A",
		}
		if v := raw.Get("name"); v.Exists() {
			ws.Name = v.String()
		}

		wf := inventory.WorkspaceFlags{Workspace: ws}
		if ws.ID == "" {
			utils.Log.Debugf("workspace %q has no id, skipping flags", ws.Name)
			out = append(out, wf)
			continue
		}

		flagsPayload, err := c.ListFlags(ws.ID)
		if err != nil {
			// One workspace failing contributes zero flags; the run continues.
			utils.Log.Debugf("fetching flags for workspace %q: %v", ws.Name, err)
		}

		for _, rawFlag := range inventory.ToList(flagsPayload) {
			wf.Flags = append(wf.Flags, inventory.Project(rawFlag, ws.Name, c, agg))
		}
		if len(wf.Flags) > 0 {
			agg.WorkspacesWithFlags++
		}
		out = append(out, wf)
	}

	return out, agg, nil
}

func (c *Client) getJSON(reqURL string, headers []whttp.WHTTPHeader, params url.Values) (gjson.Result, error) {
	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		Method:  "GET",
		URL:     reqURL,
		Headers: headers,
		Params:  params,
	}, c.http)
	if err != nil {
		return gjson.Result{}, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return gjson.Result{}, fmt.Errorf("GET %s: unexpected status %d", reqURL, res.StatusCode)
	}
	return gjson.Parse(res.BodyString), nil
}

func (c *Client) bearerHeaders() []whttp.WHTTPHeader {
	return []whttp.WHTTPHeader{
		{Name: "Authorization", Value: "Bearer " + c.token},
	}
}
