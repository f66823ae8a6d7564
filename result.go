package poseact

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const placeholderPrefix = "Action_"

// PlaceholderLabel returns the key used for an empty slot in a Result.
func PlaceholderLabel(slot int) string {
	return placeholderPrefix + strconv.Itoa(slot)
}

// IsPlaceholder reports whether label has the form of a placeholder key.
// Such labels cannot be registered.
func IsPlaceholder(label string) bool {
	rest, ok := strings.CutPrefix(label, placeholderPrefix)
	if !ok || rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SlotScore is the normalized score of one slot.
type SlotScore struct {
	Index       int     `json:"index"`
	Label       string  `json:"label"`
	Score       float32 `json:"score"`
	Placeholder bool    `json:"placeholder"`
}

// Result is the outcome of one inference. Scores over all slots,
// placeholders included, sum to 1.
type Result struct {
	// Slots holds one entry per slot in slot order.
	Slots []SlotScore `json:"slots"`
	// Scores maps every label, real or placeholder, to its score.
	Scores map[string]float32 `json:"scores"`
}

// Best returns the highest-scoring registered label.
// Ties go to the lower slot. ok is false when no slot holds a label.
func (r *Result) Best() (best SlotScore, ok bool) {
	for _, s := range r.Slots {
		if s.Placeholder {
			continue
		}
		if !ok || s.Score > best.Score {
			best, ok = s, true
		}
	}
	return best, ok
}

// Real returns the scores of registered labels only.
func (r *Result) Real() map[string]float32 {
	out := make(map[string]float32, len(r.Slots))
	for _, s := range r.Slots {
		if !s.Placeholder {
			out[s.Label] = s.Score
		}
	}
	return out
}

// Score returns the score of label and whether it is present.
func (r *Result) Score(label string) (float32, bool) {
	v, ok := r.Scores[label]
	return v, ok
}

func (r *Result) String() string {
	var sb strings.Builder
	for i, s := range r.Slots {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s=%.3f", s.Label, s.Score)
	}
	return sb.String()
}

// softmax normalizes logits into a distribution, subtracting the maximum first.
// Logits must be finite.
func softmax(logits []float32) []float32 {
	out := make([]float32, len(logits))
	if len(logits) == 0 {
		return out
	}

	maxV := float64(logits[0])
	for _, v := range logits[1:] {
		maxV = math.Max(maxV, float64(v))
	}

	exps := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		exps[i] = math.Exp(float64(v) - maxV)
		sum += exps[i]
	}
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}
