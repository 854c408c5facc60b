package main

import (
	"fmt"
	"io"
	"sync"
)

// consoleView prints notifications and navigation for headless runs.
type consoleView struct {
	w       io.Writer
	baseURL string
}

func (v *consoleView) Notify(text string) {
	fmt.Fprintln(v.w, text)
}

func (v *consoleView) Navigate(path string) {
	fmt.Fprintf(v.w, "-> %s%s\n", v.baseURL, path)
}

func (v *consoleView) Reload() {
	fmt.Fprintln(v.w, "-> reload")
}

// sessionView captures what one submission asked the screen to do so the
// TUI can apply it when the result message arrives.
type sessionView struct {
	mu       sync.Mutex
	notices  []string
	target   string
	reloaded bool
}

func (v *sessionView) Notify(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, text)
}

func (v *sessionView) Navigate(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.target = path
}

func (v *sessionView) Reload() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reloaded = true
}

func (v *sessionView) result() checkoutResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return checkoutResult{notices: append([]string(nil), v.notices...), target: v.target, reloaded: v.reloaded}
}

// discardView drops everything; bench counts outcomes through an observer.
type discardView struct{}

func (discardView) Notify(string)   {}
func (discardView) Navigate(string) {}
func (discardView) Reload()         {}
