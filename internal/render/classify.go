package render

import (
	"image/color"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
)

// RowStatus is the competition meaning of a table position.
type RowStatus int

const (
	RowDefault RowStatus = iota
	RowLeader
	RowPromotion
	RowPlayoff
	RowRelegation
)

func (s RowStatus) String() string {
	switch s {
	case RowLeader:
		return "leader"
	case RowPromotion:
		return "promotion"
	case RowPlayoff:
		return "playoff"
	case RowRelegation:
		return "relegation"
	default:
		return "default"
	}
}

// Classify assigns a status to the 1-based rank in a table of total rows.
// Promotion and relegation zones only exist from the season divisions were
// introduced; before that, and for undivided tables, only the leader stands out.
func Classify(rank, total int, division standing.Division, season int) RowStatus {
	if league.HasDivisions(season) {
		switch division {
		case standing.DivisionTwo:
			switch rank {
			case 1:
				return RowPromotion
			case 2:
				return RowPlayoff
			}
		case standing.DivisionOne:
			switch rank {
			case total:
				return RowRelegation
			case total - 1:
				return RowPlayoff
			}
		}
	}

	if rank == 1 {
		return RowLeader
	}
	return RowDefault
}

// RowStyle is the resolved paint for one row.
type RowStyle struct {
	Status RowStatus
	Fill   color.NRGBA
}

// RowStyle maps a status to a fill. Default rows alternate by rank parity.
func (t Theme) RowStyle(status RowStatus, rank int, tier league.Tier) RowStyle {
	style := RowStyle{Status: status}
	switch status {
	case RowLeader:
		style.Fill = t.LeaderTint(tier)
	case RowPromotion:
		style.Fill = t.Palette.Promotion.NRGBA()
	case RowPlayoff:
		style.Fill = t.Palette.Playoff.NRGBA()
	case RowRelegation:
		style.Fill = t.Palette.Relegation.NRGBA()
	default:
		if rank%2 == 0 {
			style.Fill = t.Palette.RowEven.NRGBA()
		} else {
			style.Fill = t.Palette.RowOdd.NRGBA()
		}
	}
	return style
}
