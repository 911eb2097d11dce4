// Package service implements the alert notifiers and their fan-out
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	aldomain "breachwatch/internal/services/alerts/domain"
)

// Console prints alerts in a visually distinctive banner so they stand
// out in terminal output
type Console struct {
	Out io.Writer
}

// NewConsole writes banners to stdout
func NewConsole() *Console { return &Console{Out: os.Stdout} }

// Name implements domain.Notifier
func (c *Console) Name() string { return "console" }

// Send implements domain.Notifier
func (c *Console) Send(_ context.Context, a aldomain.Alert) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	border := strings.Repeat("!", 80)
	_, err := fmt.Fprintf(out, "\n%s\nRANSOMWARE INTELLIGENCE ALERT #%d (%s)\n%s\n%s\n%s\n\n",
		border,
		a.ID, time.Now().Format("2006-01-02 15:04:05"),
		border,
		a.Message,
		border,
	)
	return err
}
