package entity

import (
	"fmt"
	"strings"
)

// FitMode политика масштабирования исходного изображения на холст.
type FitMode string

const (
	FitStretch FitMode = "stretch" // независимые масштабы по осям, без учёта пропорций
	FitAspect  FitMode = "aspect"  // единый масштаб с центрированием
)

// ParseFitMode разбирает название режима.
func ParseFitMode(s string) (FitMode, error) {
	switch FitMode(strings.ToLower(strings.TrimSpace(s))) {
	case FitStretch:
		return FitStretch, nil
	case FitAspect:
		return FitAspect, nil
	default:
		return "", fmt.Errorf("%w: unknown fit mode %q", ErrInvalidInput, s)
	}
}

// Toggle возвращает противоположный режим.
func (m FitMode) Toggle() FitMode {
	if m == FitAspect {
		return FitStretch
	}
	return FitAspect
}
