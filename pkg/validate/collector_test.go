package validate_test

import (
	"sync"
	"testing"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/validate"
	"github.com/stretchr/testify/assert"
)

func TestCollector_StrictPromotesAtCreation(t *testing.T) {
	c := validate.NewCollector(true)
	c.Warn("f.csv", "Extra columns in %s: %s", "f.csv", "x")

	msgs := c.Messages()
	assert.Equal(t, core.LevelError, msgs[0].Level)
	assert.Equal(t, "Extra columns in f.csv: x", msgs[0].Message)
	assert.Equal(t, "f.csv", msgs[0].File)
	assert.Equal(t, 1, c.ErrorCount())

	r := c.Report()
	assert.Equal(t, core.StatusFailed, r.Status)
	assert.Equal(t, 1, r.ErrorCount)
	assert.Zero(t, r.WarningCount)
}

func TestCollector_DefaultKeepsWarnings(t *testing.T) {
	c := validate.NewCollector(false)
	c.Warn("", "Sample file not found for dataset '%s' at %s", "x", "p")
	assert.False(t, c.HasErrors())
	assert.Equal(t, core.StatusPassed, c.Report().Status)

	c.Error("", "Input file not found: %s", "p")
	assert.True(t, c.HasErrors())
	assert.Equal(t, []string{
		"Sample file not found for dataset 'x' at p",
		"Input file not found: p",
	}, texts(c.Messages()))
}

func TestCollector_MessagesIsACopy(t *testing.T) {
	c := validate.NewCollector(false)
	c.Error("", "one")
	msgs := c.Messages()
	msgs[0].Message = "changed"
	assert.Equal(t, "one", c.Messages()[0].Message)
}

func TestCollector_Concurrent(t *testing.T) {
	c := validate.NewCollector(false)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Error("", "e")
			c.Warn("", "w")
		}()
	}
	wg.Wait()
	r := c.Report()
	assert.Equal(t, 50, r.ErrorCount)
	assert.Equal(t, 50, r.WarningCount)
}
