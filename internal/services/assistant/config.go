// File: internal/services/assistant/config.go
package assistant

import "fmt"

type Config struct {
	// HistoryLimit is how many prior messages feed the prompt, oldest first.
	HistoryLimit int

	// Boundary limits
	MaxMessageLength int
	TitleLength      int
	PreviewLength    int

	// QueryCost is the flat estimated cost recorded per grounded-or-not
	// assistant turn. Zero disables cost accounting while keeping the query
	// counter.
	QueryCost float64
}

func (c *Config) Validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.TitleLength <= 0 {
		return fmt.Errorf("title_length must be positive")
	}
	if c.PreviewLength <= 0 {
		return fmt.Errorf("preview_length must be positive")
	}
	if c.QueryCost < 0 {
		return fmt.Errorf("query_cost cannot be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:     10,
		MaxMessageLength: 5000,
		TitleLength:      50,
		PreviewLength:    100,
		QueryCost:        0,
	}
}
