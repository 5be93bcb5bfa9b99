package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// replaced with a fresh instance.
const DefaultMaxPages = 75

// BrowserManager owns a headless Chrome instance and replaces it after a
// fixed number of rendered pages, since Chrome memory keeps growing even
// when every page is closed.
//
// A replacement only happens while no page is open, so pages in flight are
// never cut off. BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	maxPages int
	rendered int
	open     int
	closed   bool
}

// NewBrowserManager launches a headless browser that is replaced after
// maxPages pages. A non-positive maxPages means DefaultMaxPages.
func NewBrowserManager(maxPages int) (*BrowserManager, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	m := &BrowserManager{maxPages: maxPages}
	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Acquire returns the browser to open one page in. Every successful
// Acquire must be paired with a Release.
func (m *BrowserManager) Acquire() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errClosed
	}
	if m.rendered >= m.maxPages && m.open == 0 {
		m.recycle()
	}
	m.open++
	return m.browser, nil
}

// Release marks a page acquired with Acquire as finished.
func (m *BrowserManager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open--
	m.rendered++
}

// Close shuts the browser down. Close is safe to call more than once.
func (m *BrowserManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.shutdown()
}

// LauncherPID returns the process ID of the browser launcher, or 0 after
// Close.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

// launch starts a new browser. Must be called with mu held or before the
// manager is shared.
func (m *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = l
	return nil
}

// shutdown closes the browser and kills its process. Must be called with
// mu held.
func (m *BrowserManager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle swaps in a fresh browser. The old one is kept if the launch
// fails. Must be called with mu held.
func (m *BrowserManager) recycle() {
	oldBrowser, oldLauncher := m.browser, m.launcher
	if err := m.launch(); err != nil {
		m.browser, m.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	m.rendered = 0
}
