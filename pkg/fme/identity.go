package fme

import (
	"net/url"

	"github.com/flagscope/flagscope/internal/utils"
	"github.com/flagscope/flagscope/pkg/whttp"
)

// emailPaths are probed in order against the identity payload. The endpoint
// is known to answer with several envelope shapes; the first email found
// wins. New shapes can be supported by appending a path.
var emailPaths = []string{
	"data.user.email",
	"data.email",
	"user.email",
	"email",
}

// ResolveOwner resolves an owner id to a display identity, memoized for the
// run. The identity endpoint is hit at most once per distinct id: lookups
// that fail or return no usable email are cached as the "ID: <id>" fallback
// and never retried within the run.
func (c *Client) ResolveOwner(ownerID string) string {
	if display, ok := c.ownerCache[ownerID]; ok {
		return display
	}

	display := "ID: " + ownerID

	payload, err := c.getJSON(
		c.identityBase+"/user/aggregate/"+ownerID,
		[]whttp.WHTTPHeader{
			{Name: "x-api-key", Value: c.token},
			{Name: "Harness-Account", Value: c.accountID},
		},
		url.Values{"accountIdentifier": {c.accountID}},
	)
	if err != nil {
		utils.Log.Debugf("identity lookup for %s failed: %v", ownerID, err)
	} else {
		for _, path := range emailPaths {
			if email := payload.Get(path).String(); email != "" {
				display = email
				break
			}
		}
	}

	c.ownerCache[ownerID] = display
	return display
}
