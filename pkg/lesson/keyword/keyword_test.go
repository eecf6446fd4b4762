package keyword

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/487058267/agent-cross-discipline/pkg/llm"
)

type fakeProvider struct {
	reply string
	err   error
	block bool
	calls int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

const rocketBody = "Students will explain Newton's third law with balloon rockets."

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		body     string
		section  string
		want     string
		calls    int
	}{
		{
			name:     "model reply accepted",
			provider: &fakeProvider{reply: "Balloon rocket physics"},
			body:     rocketBody,
			section:  "Procedure",
			want:     "Balloon rocket physics",
			calls:    1,
		},
		{
			name:     "model reply cleaned",
			provider: &fakeProvider{reply: "<think>pick something</think>\n\"Newton, forces!\"\n"},
			body:     rocketBody,
			section:  "Procedure",
			want:     "Newton forces",
			calls:    1,
		},
		{
			name:     "model error falls back to body",
			provider: &fakeProvider{err: errors.New("upstream down")},
			body:     rocketBody,
			section:  "Procedure",
			want:     "Newton third law balloon rockets",
			calls:    1,
		},
		{
			name:     "overlong reply falls back to body",
			provider: &fakeProvider{reply: "here is a long answer that keeps going well beyond the limit"},
			body:     rocketBody,
			section:  "Procedure",
			want:     "Newton third law balloon rockets",
			calls:    1,
		},
		{
			name:     "empty reply falls back to body",
			provider: &fakeProvider{reply: "   "},
			body:     rocketBody,
			section:  "Procedure",
			want:     "Newton third law balloon rockets",
			calls:    1,
		},
		{
			name:     "stop-word body falls back to name",
			provider: &fakeProvider{err: errors.New("boom")},
			body:     "The students will learn the lesson.",
			section:  "Volcano Lab",
			want:     "Volcano Lab",
			calls:    1,
		},
		{
			name:     "canonical name used when body and name words are stop words",
			provider: &fakeProvider{err: errors.New("boom")},
			body:     "The students will learn the lesson.",
			section:  "Objectives",
			want:     "Objectives",
			calls:    1,
		},
		{
			name:     "empty body skips every strategy",
			provider: &fakeProvider{reply: "unused"},
			body:     "  \n ",
			section:  "Procedure",
			want:     "",
			calls:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.provider, time.Second, nil)
			got := e.Extract(context.Background(), tt.body, tt.section)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.calls, tt.provider.calls)
		})
	}
}

func TestExtractModelTimeout(t *testing.T) {
	p := &fakeProvider{block: true}
	e := NewExtractor(p, 10*time.Millisecond, nil)

	got := e.Extract(context.Background(), rocketBody, "Procedure")
	assert.Equal(t, "Newton third law balloon rockets", got)
}

func TestExtractWithoutProvider(t *testing.T) {
	e := NewExtractor(nil, 0, nil)
	assert.Equal(t, "Newton third law balloon rockets", e.Extract(context.Background(), rocketBody, "Procedure"))
}

func TestExtractCustomStrategies(t *testing.T) {
	var order []string
	mk := func(label, out string) Strategy {
		return StrategyFunc{Label: label, Fn: func(context.Context, string, string) (string, error) {
			order = append(order, label)
			return out, nil
		}}
	}
	e := NewExtractorWithStrategies(nil, mk("first", ""), mk("second", "fractions"), mk("third", "never"))

	assert.Equal(t, "fractions", e.Extract(context.Background(), "body", "name"))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"stop words removed", rocketBody, "Newton third law balloon rockets"},
		{"at most five tokens", "alpha beta gamma delta epsilon zeta eta", "alpha beta gamma delta epsilon"},
		{"single runes dropped", "a b c x y z volcanoes", "volcanoes"},
		{"long words kept whole", "electromagnetism basics", "electromagnetism basics"},
		{"long stop word dropped", "Photosynthesis understanding", "Photosynthesis"},
		{"query bounded by rune budget", "Students will understand Newton's third law through hands-on experiments.", "Newton third law hands"},
		{"later short word still fits", "Newton third law hands experiments pulleys", "Newton third law hands pulleys"},
		{"chinese run kept", "学生通过气球火箭理解牛顿定律", "学生通过气球火箭理解牛顿定律"},
		{"overlong run cut", "气球火箭实验帮助学生理解牛顿第三定律以及动量守恒原理并联系生活中的喷气推进现象", "气球火箭实验帮助学生理解"},
		{"chinese stop word", "学生，气球火箭", "气球火箭"},
		{"nothing usable", "the of and", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.text))
		})
	}
}

func TestFallbackAlwaysValid(t *testing.T) {
	bodies := []string{
		"Students will understand Newton's third law through hands-on experiments.",
		"Investigate electromagnetism, thermodynamics, photosynthesis and biodiversity in depth.",
		"Photosynthesis understanding",
		"Incomprehensibilities characteristically internationalization counterrevolutionaries",
		"学生通过气球火箭理解牛顿定律",
		"x",
		"The students will learn the lesson.",
	}

	e := NewExtractor(&fakeProvider{err: errors.New("model down")}, time.Second, nil)
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			if fb := Fallback(body); fb != "" {
				_, err := Validate(fb)
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(strings.Fields(fb)), MaxFallbackTokens)
				for _, w := range strings.Fields(fb) {
					assert.False(t, IsStopWord(w), w)
				}
			}

			for _, section := range []string{"Objectives", "Procedure", "Assessment", "Extension", "Cross-disciplinary Links"} {
				got := e.Extract(context.Background(), body, section)
				require.NotEmpty(t, got, section)
				_, err := Validate(got)
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"collapses whitespace", "  force \t and   motion ", "force and motion", false},
		{"six tokens", "a b c d e f", "a b c d e f", false},
		{"seven tokens", "a b c d e f g", "", true},
		{"too many runes", "photosynthesis chlorophyll mitochondria", "", true},
		{"empty", " ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPromptTruncatesBody(t *testing.T) {
	long := make([]rune, maxPromptRunes+100)
	for i := range long {
		long[i] = '字'
	}
	prompt := BuildPrompt(string(long), "Procedure")

	assert.Contains(t, prompt, "Section: Procedure")
	assert.NotContains(t, prompt, string(long))
}
