package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/bunkplan/internal/dashboard"
	"github.com/Iron-Ham/bunkplan/internal/errors"
	"github.com/Iron-Ham/bunkplan/internal/portal"
)

// newPortalClient builds a client from config. A non-empty token
// overrides portal.token.
func (a *app) newPortalClient(token string) (*portal.Client, error) {
	if token == "" {
		token = a.cfg.Portal.Token
	}
	return portal.NewClient(a.cfg.Portal.BaseURL, token,
		portal.WithAuthScheme(a.cfg.Portal.AuthScheme),
		portal.WithTimeout(a.cfg.Portal.Timeout()),
		portal.WithLogger(a.logger),
	)
}

// requireToken fails early with a hint when no token is configured.
func requireToken(c *portal.Client) error {
	if c.HasToken() {
		return nil
	}
	return fmt.Errorf("no portal token: run 'bunkplan login --save', set BUNKPLAN_PORTAL_TOKEN or pass --token")
}

// portalFailure adds a hint to portal errors the user can act on.
// Logging happens once, when the command's error is reported.
func (a *app) portalFailure(err error) error {
	switch {
	case errors.Is(err, errors.ErrUnauthorized):
		return fmt.Errorf("%w\nYour session may have expired; run 'bunkplan login --save'", err)
	case errors.IsRetryable(err):
		return fmt.Errorf("%w\nThe portal may be busy; try again in a moment", err)
	}
	return err
}

// warnPanels notes dashboard panels that could not be loaded.
func warnPanels(w io.Writer, ov *portal.Overview) {
	for _, p := range []struct {
		name string
		err  error
	}{
		{"overall attendance", ov.SummaryErr},
		{"CGPA", ov.PerformanceErr},
		{"upcoming classes", ov.UpcomingErr},
	} {
		if p.err != nil {
			fmt.Fprintf(w, "Warning: %s unavailable: %v\n", p.name, p.err)
		}
	}
}

// pickCard selects a card by selector, or the lowest one for "lowest".
func pickCard(cards []dashboard.Card, selector string) (dashboard.Card, error) {
	if selector == "lowest" {
		c, ok := dashboard.Lowest(cards)
		if !ok {
			return dashboard.Card{}, errors.NewNotFoundError("course component", "with recorded classes")
		}
		return c, nil
	}
	return dashboard.Find(cards, selector)
}
