package valueobjects

import (
	"encoding/json"
	"fmt"
)

// ContentType classifies a knowledge pill
type ContentType int

const (
	ContentTypeArticle ContentType = iota + 1
	ContentTypeVideo
	ContentTypeQuiz
)

var contentTypeNames = []string{"Article", "Video", "Quiz"}

// ParseContentType accepts "2" as well as "video".
func ParseContentType(s string) (ContentType, error) {
	n, err := parseEnum(s, contentTypeNames)
	if err != nil {
		return 0, fmt.Errorf("invalid content type: %w", err)
	}
	return ContentType(n), nil
}

func (t ContentType) IsValid() bool {
	return t >= ContentTypeArticle && t <= ContentTypeQuiz
}

// IsLowEffort is true for content that suits a stressed reader.
func (t ContentType) IsLowEffort() bool {
	return t == ContentTypeArticle || t == ContentTypeVideo
}

func (t ContentType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("ContentType(%d)", int(t))
	}
	return contentTypeNames[t-1]
}

func (t ContentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(t))
}

func (t *ContentType) UnmarshalJSON(data []byte) error {
	n, err := unmarshalEnum(data, contentTypeNames)
	if err != nil {
		return fmt.Errorf("invalid content type: %w", err)
	}
	*t = ContentType(n)
	return nil
}
