package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/singme/internal/models"
)

var _ list.Item = recommendationItem{}

// recommendationItem wraps [models.Recommendation] to implement [list.Item].
type recommendationItem struct {
	rec models.Recommendation
}

func (i recommendationItem) FilterValue() string { return i.rec.Name }
func (i recommendationItem) Title() string       { return i.rec.Name }
func (i recommendationItem) Description() string {
	return fmt.Sprintf("%+d • %s", i.rec.Score, i.rec.YouTubeLink)
}

func toItems(recs []models.Recommendation) []list.Item {
	items := make([]list.Item, len(recs))
	for i, rec := range recs {
		items[i] = recommendationItem{rec: rec}
	}
	return items
}
