package pipeline

import (
	"github.com/hendrikb/pipeline-monitor/constants"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// Unresolved is the classifier accumulator before any stage has matched.
const Unresolved = -1

// Classifier assigns records to stages while threading the monotone
// "running best stage" accumulator through the fold. One Classifier serves
// exactly one run; state never leaks across runs.
type Classifier struct {
	set     *StageSet
	running int
}

func NewClassifier(set *StageSet) *Classifier {
	return &Classifier{set: set, running: Unresolved}
}

// Running returns the best-known stage index so far, Unresolved before the
// first record.
func (c *Classifier) Running() int { return c.running }

// Resolve returns the stage index rec files under and advances the running
// stage. Progression is monotone non-decreasing: a record that resembles an
// earlier stage after a later one has started still files under the later
// stage, which is how late stderr lines from a finished phase behave.
func (c *Classifier) Resolve(rec entity.LogRecord) int {
	idx := c.match(rec)
	if idx == Unresolved {
		if c.running != Unresolved {
			idx = c.running
		} else {
			idx = 0
		}
	}
	idx = c.set.Clamp(idx)
	if idx > c.running {
		c.running = idx
	}
	return c.running
}

// match applies the layered heuristics in order, first hit wins.
func (c *Classifier) match(rec entity.LogRecord) int {
	// 1. Explicit stage tag.
	if rec.Stage != "" {
		if idx := c.set.IndexOf(StageID(rec.Stage)); idx != Unresolved {
			return idx
		}
	}

	// 2. Per-stage message matchers, declared stage order.
	for i, st := range c.set.Stages {
		for _, m := range st.Matchers {
			if m.MatchString(rec.Message) {
				return i
			}
		}
	}

	// 3. Summary records with known message literals.
	if rec.Level == constants.LevelSummary {
		for i, st := range c.set.Stages {
			for _, msg := range st.SummaryMessages {
				if rec.Message == msg {
					return i
				}
			}
		}
	}

	// 4. Error payload text probes.
	if rec.Level == constants.LevelError {
		if errText, ok := rec.DataString("error"); ok {
			for i, st := range c.set.Stages {
				for _, p := range st.ErrorProbes {
					if p.MatchString(errText) {
						return i
					}
				}
			}
		}
	}

	return Unresolved
}
