package domain

import "sort"

const defaultVisitsRequired = 10

// ComputeProgress reports how far a customer is toward the next reward or
// tier of a program. It is pure: callers supply already-fetched records and
// the result is recomputed on every read.
func ComputeProgress(program LoyaltyProgram, rewards []LoyaltyReward, customer Customer) ProgressResult {
	switch program.Type {
	case ProgramTypePoints:
		return pointsProgress(rewards, customer.LoyaltyPoints)
	case ProgramTypeVisits:
		return visitsProgress(program, rewards, customer.TotalVisits)
	case ProgramTypeTiered:
		return tieredProgress(program.Tiers, customer.LoyaltyPoints)
	default:
		return ProgressResult{}
	}
}

func pointsProgress(rewards []LoyaltyReward, current int) ProgressResult {
	qualifying := make([]LoyaltyReward, 0, len(rewards))
	for _, r := range rewards {
		if r.Active && r.PointsCost != nil {
			qualifying = append(qualifying, r)
		}
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		return *qualifying[i].PointsCost < *qualifying[j].PointsCost
	})

	for _, r := range qualifying {
		if *r.PointsCost > current {
			return ProgressResult{
				VisitsOrPoints: current,
				Progress:       clampPercent(percentOf(current, *r.PointsCost)),
				NextRewardAt:   *r.PointsCost,
				NextRewardName: r.Name,
			}
		}
	}
	if len(qualifying) > 0 {
		top := qualifying[len(qualifying)-1]
		return ProgressResult{
			VisitsOrPoints: current,
			Progress:       100,
			NextRewardAt:   *top.PointsCost,
			NextRewardName: top.Name,
		}
	}
	return ProgressResult{VisitsOrPoints: current}
}

func visitsProgress(program LoyaltyProgram, rewards []LoyaltyReward, current int) ProgressResult {
	required := program.VisitsRequired
	if required <= 0 {
		required = defaultVisitsRequired
	}
	// Progress resets each time a visit cycle completes.
	result := ProgressResult{
		VisitsOrPoints: current,
		Progress:       clampPercent(percentOf(current%required, required)),
		NextRewardAt:   required,
	}
	for _, r := range rewards {
		if r.Active && r.VisitsCost != nil && *r.VisitsCost == required {
			result.NextRewardName = r.Name
			break
		}
	}
	return result
}

func tieredProgress(tiers []Tier, current int) ProgressResult {
	if len(tiers) == 0 {
		return ProgressResult{VisitsOrPoints: current}
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	currentIdx := len(sorted) - 1
	for i, t := range sorted {
		if t.Threshold > current {
			currentIdx = i - 1
			break
		}
	}

	if currentIdx+1 < len(sorted) {
		next := sorted[currentIdx+1]
		prevThreshold := 0
		if currentIdx >= 0 {
			prevThreshold = sorted[currentIdx].Threshold
		}
		return ProgressResult{
			VisitsOrPoints: current,
			Progress:       clampPercent(percentOf(current-prevThreshold, next.Threshold-prevThreshold)),
			NextRewardAt:   next.Threshold,
			NextRewardName: next.Name + " Tier",
		}
	}
	return ProgressResult{
		VisitsOrPoints: current,
		Progress:       100,
		NextRewardAt:   sorted[len(sorted)-1].Threshold,
		NextRewardName: "Highest Tier Achieved",
	}
}

// CurrentTier returns the tier a points balance falls into, or nil when the
// balance is below every threshold. A balance exactly at a threshold belongs
// to that tier.
func CurrentTier(tiers []Tier, current int) *Tier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	var match *Tier
	for i := range sorted {
		if sorted[i].Threshold <= current {
			match = &sorted[i]
		}
	}
	return match
}

func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
