package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	cases := map[string]Lang{
		"":            English,
		"C":           English,
		"en_US.UTF-8": English,
		"zh_CN.UTF-8": Chinese,
		"zh-Hans":     Chinese,
		"vi_VN.UTF-8": Vietnamese,
		"vi":          Vietnamese,
		"fr_FR":       English,
		"not a tag!!": English,
	}
	for in, want := range cases {
		assert.Equal(t, want, Match(in), "input %q", in)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")
	assert.Equal(t, Chinese, FromEnv())

	t.Setenv("LC_ALL", "en_GB.UTF-8")
	assert.Equal(t, English, FromEnv())
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for _, lang := range []Lang{Chinese, Vietnamese} {
		for key := range catalogs[English] {
			_, ok := catalogs[lang][key]
			assert.True(t, ok, "%s catalog missing %q", lang, key)
		}
		assert.Len(t, catalogs[lang], len(catalogs[English]))
		assert.Len(t, topicNames[lang], len(topicNames[English]))
	}
}

func TestNextCyclesAllLanguages(t *testing.T) {
	assert.Equal(t, Chinese, English.Next())
	assert.Equal(t, Vietnamese, Chinese.Next())
	assert.Equal(t, English, Vietnamese.Next())
	assert.Equal(t, English, Lang("fr").Next())
}

func TestTranslateFallback(t *testing.T) {
	assert.Equal(t, "口语练习", Chinese.T(KeyTitle))
	assert.Equal(t, "unknown_key", Chinese.T("unknown_key"))
	assert.Equal(t, "Luyện nói AI", Vietnamese.T(KeyTitle))
	assert.Equal(t, "Tiếng Việt", Vietnamese.Name())
	assert.Equal(t, "旅行", Chinese.TopicName("travel"))
	assert.Equal(t, "Du lịch", Vietnamese.TopicName("travel"))
	assert.Equal(t, "custom", English.TopicName("custom"))
}
