package commands

import (
	"fmt"
	"strings"
)

// printMetrics writes every counter sample gathered from the app registry,
// one per line, in the registry's sorted order.
func (a *app) printMetrics() error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(a.out, "  metric: %s{%s} %v\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
