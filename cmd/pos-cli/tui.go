package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bogartqtpie/construction-inventory-web/internal/cart"
	"github.com/bogartqtpie/construction-inventory-web/internal/checkout"
	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
)

type model struct {
	base     checkout.Config
	catalog  []cart.Material
	cart     *cart.Cart
	selected int
	notice   string
	salePage string
	busy     bool
}

func initialModel(base checkout.Config, catalog []cart.Material) model {
	return model{
		base:    base,
		catalog: catalog,
		cart:    cart.New(),
		notice:  "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

type checkoutResult struct {
	notices  []string
	target   string
	reloaded bool
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.salePage != "" {
			// any key leaves the sale page for a fresh cart
			m.salePage = ""
			m.cart.Clear()
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.catalog)-1 {
				m.selected++
			}
		case "+", "=", "right":
			if len(m.catalog) > 0 {
				m.cart.Add(m.catalog[m.selected].ID)
			}
		case "-", "left":
			if len(m.catalog) > 0 {
				m.cart.Remove(m.catalog[m.selected].ID)
			}
		case "c":
			m.cart.Clear()
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.notice = "Submitting..."
			return m, runCheckoutCmd(m.base, m.cart.Items())
		}
	case checkoutResult:
		m.busy = false
		m.notice = strings.Join(msg.notices, " ")
		if msg.target != "" {
			m.salePage = m.base.BaseURL + msg.target
		}
		if msg.reloaded {
			m.cart.Clear()
		}
	}
	return m, nil
}

func runCheckoutCmd(base checkout.Config, items []contracts.LineItem) tea.Cmd {
	return func() tea.Msg {
		view := &sessionView{}
		checkout.NewSubmitter(base, view, view).Submit(context.Background(), items)
		return view.result()
	}
}

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "construction-inventory POS")
	fmt.Fprintln(b, "")

	if m.salePage != "" {
		fmt.Fprintf(b, "%s\n\n", m.notice)
		fmt.Fprintf(b, "Sale page: %s\n", m.salePage)
		fmt.Fprintln(b, "\nPress any key for a new sale, q to quit")
		return b.String()
	}

	fmt.Fprintln(b, "Materials:")
	for i, mat := range m.catalog {
		marker := " "
		if i == m.selected {
			marker = ">"
		}
		qty := ""
		if n := m.cart.Qty(mat.ID); n > 0 {
			qty = fmt.Sprintf(" x%d", n)
		}
		fmt.Fprintf(b, " %s [%s] %s%s\n", marker, mat.ID, mat.Name, qty)
	}
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Cart: %d line(s)\n", m.cart.Len())
	fmt.Fprintf(b, "Status: %s\n", m.notice)
	fmt.Fprintln(b, "\nControls: up/down select, +/- quantity, enter checkout, c clear, q quit")
	return b.String()
}
