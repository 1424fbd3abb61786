package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/AdamBeresnev/knockout/internal/store"
	"github.com/AdamBeresnev/knockout/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore) *MatchService {
	return &MatchService{db: db, store: store}
}

type EditResult struct {
	Match            *bracket.Match `json:"match"`
	PreviousWinnerID uuid.UUID      `json:"previousWinnerId"`
}

type MarkResult struct {
	Match         *bracket.Match `json:"match"`
	RoundComplete bool           `json:"roundComplete"`
	NextRound     *int           `json:"nextRound"`
	Champion      *uuid.UUID     `json:"champion,omitempty"`
}

func (s *MatchService) GetMatch(ctx context.Context, matchID uuid.UUID) (*bracket.Match, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, matchErr("get", matchID, uuid.Nil, err, "load match")
	}
	return match, nil
}

// ListMatches returns a tournament's matches grouped by round, optionally
// narrowed to a single round.
func (s *MatchService) ListMatches(ctx context.Context, tournamentID uuid.UUID, round int) ([][]bracket.Match, error) {
	var (
		matches []bracket.Match
		err     error
	)
	if round > 0 {
		matches, err = s.store.GetRoundMatches(ctx, tournamentID, round)
	} else {
		matches, err = s.store.GetMatches(ctx, tournamentID)
	}
	if err != nil {
		return nil, storeErr(err, "get matches")
	}

	var rounds [][]bracket.Match
	for _, m := range matches {
		if len(rounds) == 0 || rounds[len(rounds)-1][0].Round != m.Round {
			rounds = append(rounds, nil)
		}
		rounds[len(rounds)-1] = append(rounds[len(rounds)-1], m)
	}
	return rounds, nil
}

// MarkWinner records a match result, moves the winner into the match it feeds
// and advances the tournament once the whole round is decided.
func (s *MatchService) MarkWinner(ctx context.Context, matchID uuid.UUID, winnerID uuid.UUID) (*MarkResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin mark winner")
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, matchErr("mark winner", matchID, winnerID, err, "load match")
	}

	if err := match.DeclareWinner(winnerID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, matchErr("mark winner", matchID, winnerID, err, "update match")
	}

	if _, err := s.advance(ctx, tx, match); err != nil {
		return nil, err
	}

	result := &MarkResult{Match: match}

	round, err := s.store.GetRoundMatchesTx(ctx, tx, match.TournamentID, match.Round)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get round %d", match.Round))
	}

	if bracket.RoundComplete(round) {
		tournament, err := s.store.GetTournamentTx(ctx, tx, match.TournamentID)
		if err != nil {
			return nil, storeErr(err, fmt.Sprintf("get tournament %s", match.TournamentID))
		}

		nextRound := match.Round + 1
		tournament.CurrentRound = nextRound
		result.RoundComplete = true
		result.NextRound = utils.Ptr(nextRound)

		if tournament.IsFinalRound(match.Round) && len(round) == 1 {
			tournament.ChampionID = match.WinnerID
			tournament.Status = bracket.TournamentCompleted
			result.Champion = match.WinnerID
		}

		if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
			return nil, storeErr(err, "update tournament")
		}

		activeRound := min(nextRound, max(tournament.TotalRounds, 1))
		if err := s.store.UpdateBracketProgressTx(ctx, tx, tournament.ID, activeRound, tournament.ChampionID); err != nil {
			return nil, storeErr(err, "update bracket")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit mark winner")
	}

	slog.Info("winner marked",
		"match_id", matchID,
		"round", match.Round,
		"winner_id", winnerID,
		"round_complete", result.RoundComplete,
	)
	if result.Champion != nil {
		slog.Info("tournament completed", "tournament_id", match.TournamentID, "champion_id", *result.Champion)
	}

	return result, nil
}

// EditWinner corrects the result of a decided match and rewrites the slot of
// the match it feeds. Matches further along are left as they are, even when
// they were already played with the previous winner.
func (s *MatchService) EditWinner(ctx context.Context, matchID uuid.UUID, newWinnerID uuid.UUID) (*EditResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin edit winner")
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, matchErr("edit winner", matchID, newWinnerID, err, "load match")
	}

	previous := utils.OrZero(match.WinnerID)

	if err := match.CorrectWinner(newWinnerID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, matchErr("edit winner", matchID, newWinnerID, err, "update match")
	}

	next, err := s.advance(ctx, tx, match)
	if err != nil {
		return nil, err
	}

	if match.IsFinal() {
		if err := s.recrown(ctx, tx, match); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit edit winner")
	}

	slog.Info("winner changed", "match_id", matchID, "from", previous, "to", newWinnerID)
	if next != nil && next.Status == bracket.MatchCompleted && previous != newWinnerID {
		slog.Warn("corrected match feeds a decided match, later rounds may be stale",
			"match_id", matchID,
			"next_match_id", next.ID,
		)
	}

	return &EditResult{Match: match, PreviousWinnerID: previous}, nil
}

// recrown keeps a decided tournament's champion in line with a corrected final.
func (s *MatchService) recrown(ctx context.Context, tx *sqlx.Tx, final *bracket.Match) error {
	tournament, err := s.store.GetTournamentTx(ctx, tx, final.TournamentID)
	if err != nil {
		return storeErr(err, fmt.Sprintf("get tournament %s", final.TournamentID))
	}
	if tournament.ChampionID == nil || *tournament.ChampionID == *final.WinnerID {
		return nil
	}

	tournament.ChampionID = final.WinnerID
	if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return storeErr(err, "update tournament")
	}

	activeRound := min(tournament.CurrentRound, max(tournament.TotalRounds, 1))
	if err := s.store.UpdateBracketProgressTx(ctx, tx, tournament.ID, activeRound, tournament.ChampionID); err != nil {
		return storeErr(err, "update bracket")
	}

	slog.Info("champion corrected", "tournament_id", tournament.ID, "champion_id", *tournament.ChampionID)
	return nil
}

// advance writes the winner of match into its successor, if it has one.
func (s *MatchService) advance(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) (*bracket.Match, error) {
	if match.NextMatchID == nil {
		return nil, nil
	}

	next, err := s.store.GetMatchTx(ctx, tx, *match.NextMatchID)
	if err != nil {
		return nil, matchErr("advance", match.ID, *match.WinnerID, err, fmt.Sprintf("load next match %s", *match.NextMatchID))
	}

	if err := match.Advance(next); err != nil {
		return nil, err
	}

	if err := s.store.UpdateMatch(ctx, tx, next); err != nil {
		return nil, matchErr("advance", match.ID, *match.WinnerID, err, "update next match")
	}
	return next, nil
}
