package rotator_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/rotator"
)

type fakeSource map[string][]string

func (f fakeSource) Questions(skill string, _ questionbank.Level) []string {
	return f[skill]
}

const lvl = questionbank.LevelIntermediate

func TestNext_EmptyPool(t *testing.T) {
	r := rotator.New()

	_, ok := r.Next(fakeSource{}, "python", lvl, "")
	assert.False(t, ok)
}

func TestNext_PigeonholeReuse(t *testing.T) {
	src := fakeSource{"python": {"Q1", "Q2", "Q3"}}
	r := rotator.New()

	seen := map[string]int{}
	for i := 0; i < 11; i++ {
		q, ok := r.Next(src, "python", lvl, "")
		require.True(t, ok)
		seen[q]++
	}

	reused := false
	for _, n := range seen {
		if n > 1 {
			reused = true
		}
	}
	assert.True(t, reused)
	assert.LessOrEqual(t, len(seen), 3)
}

func TestNext_NoLongStreaks(t *testing.T) {
	src := fakeSource{"python": {"Q1", "Q2", "Q3"}}

	// Always pick the first eligible index: the worst case for streaks.
	r := rotator.New(rotator.WithRand(func(int) int { return 0 }))

	var picks []string
	for i := 0; i < 40; i++ {
		q, ok := r.Next(src, "python", lvl, "")
		require.True(t, ok)
		picks = append(picks, q)
	}

	run := 1
	for i := 1; i < len(picks); i++ {
		if picks[i] == picks[i-1] {
			run++
		} else {
			run = 1
		}
		assert.LessOrEqual(t, run, 4, "picks: %v", picks)
	}
	assert.Equal(t, []string{"Q1", "Q1", "Q1", "Q1", "Q2"}, picks[:5])
}

func TestNext_NoLongStreaksRandom(t *testing.T) {
	src := fakeSource{"sql": {"A", "B", "C"}}
	r := rotator.New()

	prev, run := "", 0
	for i := 0; i < 500; i++ {
		q, _ := r.Next(src, "sql", lvl, "")
		if q == prev {
			run++
		} else {
			prev, run = q, 1
		}
		require.LessOrEqual(t, run, 4)
	}
}

func TestNext_HonoursExclude(t *testing.T) {
	src := fakeSource{"python": {"Q1", "Q2", "Q3"}}
	r := rotator.New()

	for i := 0; i < 50; i++ {
		q, ok := r.Next(src, "python", lvl, "Q1")
		require.True(t, ok)
		assert.NotEqual(t, "Q1", q)
	}
}

func TestNext_SingletonEqualToExclude(t *testing.T) {
	src := fakeSource{"python": {"Only"}}
	r := rotator.New()

	q, ok := r.Next(src, "python", lvl, "Only")
	require.True(t, ok)
	assert.Equal(t, "Only", q)
}

func TestNext_ResetsAfterWindowIsExhausted(t *testing.T) {
	src := fakeSource{"go": {"A", "B"}}
	r := rotator.New()

	// Excluding B leaves a single candidate, so every pick is A.
	for i := 0; i < 10; i++ {
		q, ok := r.Next(src, "go", lvl, "B")
		require.True(t, ok)
		require.Equal(t, "A", q)
	}
	assert.Len(t, r.History("go", lvl), 10)

	q, ok := r.Next(src, "go", lvl, "B")
	require.True(t, ok)
	assert.Equal(t, "A", q)
	assert.Equal(t, []int{0}, r.History("go", lvl))
}

func TestNext_HistoryBoundedToWindow(t *testing.T) {
	src := fakeSource{"go": {"A", "B", "C", "D"}}
	r := rotator.New(rotator.WithWindow(5))

	for i := 0; i < 23; i++ {
		r.Next(src, "go", lvl, "")
	}
	assert.Len(t, r.History("go", lvl), 5)
}

func TestNext_HistoryIsPerSkillAndLevel(t *testing.T) {
	src := fakeSource{"go": {"A", "B"}, "sql": {"C"}}
	r := rotator.New()

	r.Next(src, "go", questionbank.LevelBeginner, "")
	r.Next(src, "go", questionbank.LevelAdvanced, "")
	r.Next(src, "sql", questionbank.LevelBeginner, "")

	assert.Len(t, r.History("go", questionbank.LevelBeginner), 1)
	assert.Len(t, r.History("go", questionbank.LevelAdvanced), 1)
	assert.Len(t, r.History("sql", questionbank.LevelBeginner), 1)
	assert.Empty(t, r.History("sql", questionbank.LevelAdvanced))

	r.Reset()
	assert.Empty(t, r.History("go", questionbank.LevelBeginner))
}

func TestWithHistory_InjectedState(t *testing.T) {
	hist := map[rotator.Key][]int{
		{Skill: "go", Level: lvl}: {0, 0, 0, 0},
	}
	src := fakeSource{"go": {"A", "B"}}
	r := rotator.New(rotator.WithHistory(hist), rotator.WithRand(func(int) int { return 0 }))

	q, ok := r.Next(src, "go", lvl, "")
	require.True(t, ok)
	assert.Equal(t, "B", q, "A is on a four-pick streak")
	assert.Equal(t, []int{0, 0, 0, 0, 1}, hist[rotator.Key{Skill: "go", Level: lvl}])
}

func TestNext_ConcurrentCallers(t *testing.T) {
	src := fakeSource{"go": {"A", "B", "C"}}
	r := rotator.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, ok := r.Next(src, "go", lvl, "")
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, r.History("go", lvl), rotator.DefaultWindow)
}
