package suggestion

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"kmcpos/backend/internal/cache"
	"kmcpos/backend/internal/domain"
)

// Engine picks at most one add-on medicine to offer at the counter, based on
// what was sold together on past bills. Results are cached briefly because the
// same cart tends to be scored several times while the cashier works.
type Engine struct {
	cache         cache.SuggestionCache
	cacheTTL      time.Duration
	minConfidence float64
}

func NewEngine(cacheStore cache.SuggestionCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopSuggestionCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 20 * time.Second
	}

	return &Engine{
		cache:         cacheStore,
		cacheTTL:      cacheTTL,
		minConfidence: 0.35,
	}
}

// PairsFromBills derives co-occurrence affinities from bill history. The
// affinity of a pair is the share of bills that contain both medicines.
func PairsFromBills(bills []domain.Bill) []domain.AffinityPair {
	if len(bills) == 0 {
		return nil
	}

	counts := make(map[[2]string]int)
	for _, bill := range bills {
		for _, a := range bill.Items {
			for _, b := range bill.Items {
				if a.MedicineID == b.MedicineID {
					continue
				}
				counts[[2]string{a.MedicineID, b.MedicineID}]++
			}
		}
	}

	pairs := make([]domain.AffinityPair, 0, len(counts))
	for key, count := range counts {
		pairs = append(pairs, domain.AffinityPair{
			MedicineID: key[0],
			TargetID:   key[1],
			Affinity:   float64(count) / float64(len(bills)),
		})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].MedicineID == pairs[j].MedicineID {
			return pairs[i].TargetID < pairs[j].TargetID
		}
		return pairs[i].MedicineID < pairs[j].MedicineID
	})
	return pairs
}

// Suggest scores every in-stock medicine not already in the cart and returns
// the best candidate above the confidence floor, or an empty response.
func (e *Engine) Suggest(
	ctx context.Context,
	lines []domain.CartLine,
	medicines []domain.Medicine,
	pairs []domain.AffinityPair,
) domain.SuggestionResponse {
	if len(lines) == 0 {
		return domain.SuggestionResponse{}
	}

	cacheKey := buildCacheKey(lines)
	if cached, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
		return *cached
	}

	cartSet := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		cartSet[line.MedicineID] = struct{}{}
	}

	pairSignal := make(map[string]float64)
	for _, pair := range pairs {
		if _, inCart := cartSet[pair.MedicineID]; !inCart {
			continue
		}
		if _, inCart := cartSet[pair.TargetID]; inCart {
			continue
		}
		pairSignal[pair.TargetID] += pair.Affinity
	}

	byID := make(map[string]domain.Medicine, len(medicines))
	for _, m := range medicines {
		byID[m.ID] = m
	}

	var best *domain.Suggestion
	bestScore := 0.0

	for id, affinityRaw := range pairSignal {
		med, ok := byID[id]
		if !ok || med.Stock <= 0 {
			continue
		}

		affinity := clamp(affinityRaw/float64(maxInt(1, len(lines))), 0, 1)
		marginScore := clamp(marginRate(med)/0.40, 0, 1)
		stockScore := clamp(float64(med.Stock)/60.0, 0, 1)

		score := 0.50*affinity + 0.30*marginScore + 0.20*stockScore
		if score < e.minConfidence || score <= bestScore {
			continue
		}

		bestScore = score
		best = &domain.Suggestion{
			MedicineID: med.ID,
			Name:       med.Name,
			PriceCents: med.PriceCents,
			ReasonCode: deriveReason(affinity, marginScore, stockScore),
			Confidence: round2(score),
		}
	}

	resp := domain.SuggestionResponse{}
	if best != nil {
		resp = domain.SuggestionResponse{Show: true, Suggestion: best}
	}
	_ = e.cache.Set(ctx, cacheKey, &resp, e.cacheTTL)
	return resp
}

func marginRate(med domain.Medicine) float64 {
	if med.PriceCents <= 0 || med.CostPriceCents <= 0 || med.CostPriceCents >= med.PriceCents {
		return 0
	}
	return float64(med.PriceCents-med.CostPriceCents) / float64(med.PriceCents)
}

func deriveReason(affinity float64, marginScore float64, stockScore float64) string {
	type reasonWeight struct {
		code  string
		value float64
	}

	reasons := []reasonWeight{
		{code: "often_bought_together", value: affinity},
		{code: "high_margin_boost", value: marginScore},
		{code: "healthy_stock", value: stockScore},
	}
	sort.Slice(reasons, func(i, j int) bool {
		return reasons[i].value > reasons[j].value
	})
	return reasons[0].code
}

func buildCacheKey(lines []domain.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s:%d", line.MedicineID, line.Quantity))
	}
	sort.Strings(parts)

	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "pos:suggestion:" + hex.EncodeToString(hash[:])
}

func clamp(val float64, minVal float64, maxVal float64) float64 {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func round2(val float64) float64 {
	return math.Round(val*100) / 100
}

func maxInt(a int, b int) int {
	if a > b {
		return a
	}
	return b
}
