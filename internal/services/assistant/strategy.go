// File: internal/services/assistant/strategy.go
package assistant

import "github.com/multisolucioneslv/erp-assistant/internal/domain"

// StrategySet holds one instance of each dispatch strategy, selected per
// turn by table lookup on the tenant's detection mode.
type StrategySet struct {
	strategies map[domain.DetectionMode]IntentStrategy
	fallback   IntentStrategy
}

func NewStrategySet(gateway Gateway, resolver DataResolver, logger Logger) *StrategySet {
	pattern := NewPatternStrategy(resolver, logger)
	set := &StrategySet{
		strategies: map[domain.DetectionMode]IntentStrategy{
			domain.DetectionModePattern:  pattern,
			domain.DetectionModeToolCall: NewToolCallStrategy(gateway, resolver, logger),
			domain.DetectionModeTwoPass:  NewTwoPassStrategy(gateway, resolver, logger),
		},
		fallback: pattern,
	}
	return set
}

// ForMode returns the strategy for a detection mode, falling back to
// pattern matching for unknown or empty modes.
func (s *StrategySet) ForMode(mode domain.DetectionMode) IntentStrategy {
	if strategy, ok := s.strategies[mode]; ok {
		return strategy
	}
	return s.fallback
}
