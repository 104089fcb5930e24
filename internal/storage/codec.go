package storage

import (
	"encoding/json"
	"errors"

	"colonies/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion stamps records written by this build.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeTournament(r model.TournamentRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeTournament(data []byte) (model.TournamentRecord, error) {
	var record model.TournamentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.TournamentRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.TournamentRecord{}, err
	}
	return record, nil
}

func EncodeTrajectory(points []model.TrajectoryPoint) ([]byte, error) {
	return json.Marshal(points)
}

func DecodeTrajectory(data []byte) ([]model.TrajectoryPoint, error) {
	var points []model.TrajectoryPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
