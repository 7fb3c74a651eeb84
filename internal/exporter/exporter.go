// Package exporter flattens a translated script into JSON-friendly records
// for external consumers such as the preview renderer.
package exporter

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/bnema/lootfilter/internal/blockgroup"
	"github.com/bnema/lootfilter/internal/models"
)

// Exporter converts scripts to block records
type Exporter struct {
	stats Stats
}

// Stats tracks export statistics
type Stats struct {
	Exported int
	Shadowed int
	Invalid  int
	Reasons  map[string]int // why blocks were flagged
}

// Flag reason constants
const (
	ReasonShadowed     = "shadowed (same conditions as an earlier block)"
	ReasonInvalidValue = "invalid-value (out of range)"
)

// New creates a new exporter
func New() *Exporter {
	return &Exporter{
		stats: Stats{
			Reasons: make(map[string]int),
		},
	}
}

// flag records a flagged block with reason
func (e *Exporter) flag(reason string) {
	e.stats.Reasons[reason]++
}

// Stats returns export statistics
func (e *Exporter) Stats() Stats {
	return e.stats
}

// Export transforms the blocks of a script into records, in order
func (e *Exporter) Export(script *models.Script) []models.BlockRecord {
	records := make([]models.BlockRecord, 0, len(script.Blocks))

	for i, b := range script.Blocks {
		rec := models.BlockRecord{
			Index:       i,
			Action:      b.Action.String(),
			Enabled:     b.Enabled,
			Group:       script.Groups.Path(b.Group),
			Description: b.Description,
			Conditions:  []models.ItemRecord{},
			Actions:     []models.ItemRecord{},
		}

		for _, item := range b.Items {
			if u, ok := item.(models.UnknownLine); ok {
				rec.Unknown = append(rec.Unknown, strings.TrimSpace(u.Raw))
				continue
			}
			ir := models.ItemRecord{Keyword: item.Keyword(), Line: item.String(), Valid: item.Valid()}
			if models.IsCondition(item) {
				rec.Conditions = append(rec.Conditions, ir)
			} else {
				rec.Actions = append(rec.Actions, ir)
			}
		}

		if len(b.InvalidItems()) > 0 {
			e.stats.Invalid++
			e.flag(ReasonInvalidValue)
		}

		e.stats.Exported++
		records = append(records, rec)
	}

	return records
}

// ExportGroups flattens the group tree pre-order, root excluded
func (e *Exporter) ExportGroups(script *models.Script) []models.GroupRecord {
	var out []models.GroupRecord
	script.Groups.Walk(func(id blockgroup.GroupID, g blockgroup.Group, depth int) {
		if id == blockgroup.RootID {
			return
		}
		out = append(out, models.GroupRecord{
			Path:     script.Groups.Path(id),
			Advanced: g.Advanced,
			Show:     g.Show.String(),
			Enabled:  g.Enabled.String(),
			Blocks:   len(script.BlocksInGroup(id)),
		})
	})
	return out
}

// Shadowed returns, for every enabled block whose condition set equals the
// condition set of an earlier enabled block, its index mapped to the index
// of that earlier block. The game stops at the first matching block, so
// such blocks never apply.
func (e *Exporter) Shadowed(script *models.Script) map[int]int {
	seen := make(map[uint64]int)
	result := make(map[int]int)

	for i, b := range script.Blocks {
		if !b.Enabled {
			continue
		}
		key := conditionKey(b)
		if first, ok := seen[key]; ok {
			result[i] = first
			e.stats.Shadowed++
			e.flag(ReasonShadowed)
			continue
		}
		seen[key] = i
	}

	return result
}

// conditionKey hashes the sorted canonical condition lines of a block
func conditionKey(b *models.Block) uint64 {
	conditions := b.Conditions()
	lines := make([]string, len(conditions))
	for i, c := range conditions {
		lines[i] = c.String()
	}
	sort.Strings(lines)
	return xxh3.HashString(strings.Join(lines, "\n"))
}
