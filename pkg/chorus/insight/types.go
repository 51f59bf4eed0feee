package insight

import (
	"encoding/json"
	"fmt"
)

// Type is an insight category.
type Type int

const (
	PainPoint Type = iota
	FeatureRequest
	Praise
	Question
)

// Types lists every category in classification priority order.
var Types = []Type{PainPoint, FeatureRequest, Question, Praise}

var typeNames = map[Type]string{
	PainPoint:      "pain_point",
	FeatureRequest: "feature_request",
	Praise:         "praise",
	Question:       "question",
}

var typeFromName = map[string]Type{
	"pain_point":      PainPoint,
	"feature_request": FeatureRequest,
	"praise":          Praise,
	"question":        Question,
}

// String returns the snake_case name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts a type name back to a Type.
func ParseType(name string) (Type, error) {
	t, ok := typeFromName[name]
	if !ok {
		return 0, fmt.Errorf("insight: unknown type: %q", name)
	}
	return t, nil
}

// MarshalJSON encodes the type as a JSON string.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string into a Type.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Insight is a finding backed by a group of at least two comments.
type Insight struct {
	ID              string   `json:"id"`
	Type            Type     `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Confidence      float64  `json:"confidence"`
	RelatedComments []string `json:"related_comments"` // at most MaxExamples ids
	Keyword         string   `json:"keyword,omitempty"`
	Count           int      `json:"count"` // full group size
}

// Labels holds the display text used to synthesize insights.
type Labels struct {
	Titles map[Type]string
	// TitleFormat joins a title and a keyword: fmt.Sprintf(TitleFormat, title, keyword).
	TitleFormat string
	// DescriptionFormat receives the group size: fmt.Sprintf(DescriptionFormat, count).
	DescriptionFormat string
}

// DefaultLabels returns the Chinese display labels.
func DefaultLabels() Labels {
	return Labels{
		Titles: map[Type]string{
			PainPoint:      "用户痛点",
			FeatureRequest: "功能需求",
			Praise:         "用户好评",
			Question:       "常见问题",
		},
		TitleFormat:       "%s：%s",
		DescriptionFormat: "共有 %d 条评论提到了相关内容",
	}
}

// EnglishLabels returns English display labels.
func EnglishLabels() Labels {
	return Labels{
		Titles: map[Type]string{
			PainPoint:      "Pain point",
			FeatureRequest: "Feature request",
			Praise:         "Praise",
			Question:       "Common question",
		},
		TitleFormat:       "%s: %s",
		DescriptionFormat: "%d comments mention this topic",
	}
}

func (l Labels) title(t Type, keyword string) string {
	base := l.Titles[t]
	if base == "" {
		base = t.String()
	}
	if keyword == "" {
		return base
	}
	return fmt.Sprintf(l.TitleFormat, base, keyword)
}

func (l Labels) description(count int) string {
	return fmt.Sprintf(l.DescriptionFormat, count)
}
