// Package headless fetches product pages through a headless browser for
// storefronts that render availability client-side.
package headless

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/catalog"
	"github.com/nholik/stock-sentinel/internal/fetch"
)

// Config controls the behavior of the headless fetcher.
type Config struct {
	BrowserPath       string
	UserAgent         string
	NavigationTimeout time.Duration
}

const (
	defaultNavigationTimeout = 45 * time.Second
	modalWaitTimeout         = 5 * time.Second
	modalDismissTimeout      = 10 * time.Second
)

// Renderer implements fetch.Fetcher using chromedp and headless Chrome.
// The browser process is owned by the allocator and released on Close.
type Renderer struct {
	cfg         Config
	logger      zerolog.Logger
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New creates a headless fetcher backed by chromedp.
func New(cfg Config, logger zerolog.Logger) (*Renderer, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BrowserPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Renderer{
		cfg:         cfg,
		logger:      logger,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context, terminating the browser process.
func (r *Renderer) Close() {
	r.allocCancel()
}

// Fetch navigates with a headless browser and returns the rendered DOM.
func (r *Renderer) Fetch(ctx context.Context, product catalog.Product) (fetch.Page, error) {
	taskCtx, taskCancel := chromedp.NewContext(r.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, r.cfg.NavigationTimeout)
	defer cancel()

	// Abort the browser task when the caller's context is canceled.
	stop := context.AfterFunc(ctx, taskCancel)
	defer stop()

	var (
		html     string
		finalURL string
	)
	actions := []chromedp.Action{
		r.networkSetupAction(),
		chromedp.Navigate(product.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if product.Pincode != "" {
		actions = append(actions, r.pincodeAction(product))
	}
	actions = append(actions,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fetch.Page{}, &fetch.Error{Kind: fetch.KindRender, URL: product.URL, Err: err}
	}

	if finalURL == "" {
		finalURL = product.URL
	}

	return fetch.Page{
		Body:       []byte(html),
		FinalURL:   finalURL,
		StatusCode: http.StatusOK,
	}, nil
}

func (r *Renderer) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if r.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(r.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

// pincodeAction fills the delivery pincode modal when the storefront shows
// one. A modal that never appears is not an error.
func (r *Renderer) pincodeAction(product catalog.Product) chromedp.Action {
	sel := product.PincodeSelectors
	return chromedp.ActionFunc(func(ctx context.Context) error {
		modalCtx, cancel := context.WithTimeout(ctx, modalWaitTimeout)
		defer cancel()

		if err := chromedp.WaitVisible(sel.ModalSelector(), chromedp.ByQuery).Do(modalCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				r.logger.Debug().Str("product", product.ID).Msg("no pincode modal shown")
				return nil
			}
			return err
		}

		if err := chromedp.SendKeys(sel.InputSelector(), product.Pincode, chromedp.ByQuery).Do(ctx); err != nil {
			return fmt.Errorf("enter pincode: %w", err)
		}

		// The storefront suggests matching pincodes in a dropdown; click the
		// exact match when it appears, otherwise submit directly.
		dropdownXPath := fmt.Sprintf(`//p[contains(@class, "item-name") and text()=%q]`, product.Pincode)
		dropdownCtx, cancelDropdown := context.WithTimeout(ctx, modalDismissTimeout)
		if err := chromedp.Click(dropdownXPath, chromedp.BySearch).Do(dropdownCtx); err != nil {
			r.logger.Debug().Str("product", product.ID).Msg("pincode dropdown match not found, submitting directly")
			if err := r.submitPincode(ctx, sel); err != nil {
				cancelDropdown()
				return err
			}
		}
		cancelDropdown()

		dismissCtx, cancelDismiss := context.WithTimeout(ctx, modalDismissTimeout)
		defer cancelDismiss()
		if err := chromedp.WaitNotVisible(sel.ModalSelector(), chromedp.ByQuery).Do(dismissCtx); err != nil {
			return fmt.Errorf("pincode modal did not close: %w", err)
		}

		r.logger.Debug().Str("product", product.ID).Str("pincode", product.Pincode).Msg("pincode modal handled")
		return nil
	})
}

func (r *Renderer) submitPincode(ctx context.Context, sel catalog.PincodeSelectors) error {
	if sel.Submit != "" {
		if err := chromedp.Click(sel.Submit, chromedp.ByQuery).Do(ctx); err == nil {
			return nil
		}
	}
	if err := chromedp.SendKeys(sel.InputSelector(), kb.Enter, chromedp.ByQuery).Do(ctx); err != nil {
		return fmt.Errorf("submit pincode: %w", err)
	}
	return nil
}
