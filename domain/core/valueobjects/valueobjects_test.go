package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStressLevelJSON(t *testing.T) {
	t.Run("encodes as ordinal", func(t *testing.T) {
		b, err := json.Marshal(StressLevelHigh)
		require.NoError(t, err)
		assert.Equal(t, "3", string(b))
	})

	t.Run("decodes ordinal and name", func(t *testing.T) {
		var l StressLevel
		require.NoError(t, json.Unmarshal([]byte("4"), &l))
		assert.Equal(t, StressLevelCritical, l)

		require.NoError(t, json.Unmarshal([]byte(`"medium"`), &l))
		assert.Equal(t, StressLevelMedium, l)
	})

	t.Run("rejects out of range", func(t *testing.T) {
		var l StressLevel
		assert.Error(t, json.Unmarshal([]byte("0"), &l))
		assert.Error(t, json.Unmarshal([]byte("5"), &l))
		assert.Error(t, json.Unmarshal([]byte(`"extreme"`), &l))
	})
}

func TestStressLevelPredicates(t *testing.T) {
	assert.False(t, StressLevelMedium.IsElevated())
	assert.True(t, StressLevelHigh.IsElevated())
	assert.True(t, StressLevelCritical.IsElevated())
	assert.False(t, StressLevel(0).IsValid())
	assert.Equal(t, "StressLevel(9)", StressLevel(9).String())
}

func TestParseContentType(t *testing.T) {
	cases := map[string]ContentType{
		"1":       ContentTypeArticle,
		"video":   ContentTypeVideo,
		" Quiz ":  ContentTypeQuiz,
		"ARTICLE": ContentTypeArticle,
	}
	for in, want := range cases {
		got, err := ParseContentType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseContentType("4")
	assert.Error(t, err)
	_, err = ParseContentType("podcast")
	assert.Error(t, err)

	assert.True(t, ContentTypeVideo.IsLowEffort())
	assert.False(t, ContentTypeQuiz.IsLowEffort())
}
