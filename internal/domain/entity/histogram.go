package entity

import "fmt"

// ClassCount строка легенды: класс и число его вхождений.
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// String форматирует строку легенды как "healthy: 2".
func (c ClassCount) String() string {
	return fmt.Sprintf("%s: %d", c.Class, c.Count)
}

// ClassHistogram подсчёт детекций по классам.
// Порядок классов совпадает с порядком первого появления во входном списке.
type ClassHistogram struct {
	order  []string
	counts map[string]int
}

// NewClassHistogram считает гистограмму по списку детекций.
func NewClassHistogram(detections []Detection) *ClassHistogram {
	h := &ClassHistogram{counts: make(map[string]int)}
	for _, d := range detections {
		if _, seen := h.counts[d.Class]; !seen {
			h.order = append(h.order, d.Class)
		}
		h.counts[d.Class]++
	}
	return h
}

// Len возвращает число различных классов.
func (h *ClassHistogram) Len() int {
	return len(h.order)
}

// Count возвращает число детекций класса.
func (h *ClassHistogram) Count(class string) int {
	return h.counts[class]
}

// Total возвращает общее число детекций.
func (h *ClassHistogram) Total() int {
	total := 0
	for _, n := range h.counts {
		total += n
	}
	return total
}

// Entries возвращает строки легенды в порядке первого появления.
func (h *ClassHistogram) Entries() []ClassCount {
	entries := make([]ClassCount, 0, len(h.order))
	for _, class := range h.order {
		entries = append(entries, ClassCount{Class: class, Count: h.counts[class]})
	}
	return entries
}

// Lines возвращает отформатированные строки легенды.
func (h *ClassHistogram) Lines() []string {
	lines := make([]string, 0, len(h.order))
	for _, e := range h.Entries() {
		lines = append(lines, e.String())
	}
	return lines
}
