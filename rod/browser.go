package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// instance is one launched browser. A retired instance is closed once its
// last page is released.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	active   int
	retired  bool
}

// BrowserManager hands out pages of a headless Chrome and replaces the
// browser after maxPages pages, since Chrome's memory use only grows.
// Pages still open on a replaced browser keep working until released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	served   int64
	maxPages int64
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages served before the browser is
// replaced. Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome. Close must be called when
// the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	inst, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	return bm, nil
}

// Page opens a blank page bound to ctx. The returned release func closes
// the page and must be called exactly once.
func (bm *BrowserManager) Page(ctx context.Context) (*rod.Page, func(), error) {
	inst, err := bm.acquire()
	if err != nil {
		return nil, nil, err
	}

	page, err := inst.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.release(inst)
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}

	release := func() {
		_ = page.Close()
		bm.release(inst)
	}
	return page.Context(ctx), release, nil
}

func (bm *BrowserManager) acquire() (*instance, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, fmt.Errorf("browser manager closed")
	}
	if bm.served >= bm.maxPages {
		bm.recycle()
	}
	bm.served++
	bm.current.active++
	return bm.current, nil
}

func (bm *BrowserManager) release(inst *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.active--
	if inst.retired && inst.active == 0 {
		_ = inst.close()
	}
}

// recycle swaps in a fresh browser. When the launch fails the current
// browser stays in service. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next
	bm.served = 0

	old.retired = true
	if old.active == 0 {
		_ = old.close()
	}
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.current.close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// launch starts a browser with flags that keep background tabs running at
// full speed.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

func (inst *instance) close() error {
	var err error
	if inst.browser != nil {
		err = inst.browser.Close()
		inst.browser = nil
	}
	if inst.launcher != nil {
		inst.launcher.Kill()
		inst.launcher = nil
	}
	return err
}
