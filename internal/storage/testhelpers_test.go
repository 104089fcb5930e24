package storage

import (
	"colonies/internal/model"
)

func sampleTournament(runID, createdAt string) model.TournamentRecord {
	return model.TournamentRecord{
		VersionedRecord: CurrentVersion(),
		RunID:           runID,
		Format:          "league",
		Seed:            7,
		CreatedAtUTC:    createdAt,
		WinnerID:        "colony-a",
		Battles:         3,
		Standings: []model.StandingRecord{
			{Rank: 1, ColonyID: "colony-a", Label: "a", Strategy: "Always Defect", TournamentScore: 4, TotalBattleScore: 30},
			{Rank: 2, ColonyID: "colony-b", Label: "b", Strategy: "Mirror Opponent", TournamentScore: 2, TotalBattleScore: 12},
		},
	}
}

func sampleTrajectory() []model.TrajectoryPoint {
	return []model.TrajectoryPoint{
		{Round: 1, ColonyID: "colony-a", TotalBattleScore: 20},
		{Round: 1, ColonyID: "colony-b", TotalBattleScore: 0},
		{Round: 2, ColonyID: "colony-a", TotalBattleScore: 30},
		{Round: 2, ColonyID: "colony-b", TotalBattleScore: 10},
	}
}
