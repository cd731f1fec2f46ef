package analytics

import (
	"encoding/json"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// Join pairs biophysical rows with the impacts rows stored under the same key
// and returns one record per biophysical row, in biophysical order. Impacts
// rows without a biophysical partner are dropped. Rows that are not JSON
// objects still produce a record with empty attributes.
func Join(projectID, ownerID string, biophysical, impacts []docstore.Doc) []domain.FieldRecord {
	byKey := make(map[string]json.RawMessage, len(impacts))
	for _, d := range impacts {
		byKey[d.Key] = d.Data
	}

	records := make([]domain.FieldRecord, 0, len(biophysical))
	for _, d := range biophysical {
		row := decodeObject(d.Data)
		rec := domain.FieldRecord{
			ID:          d.Key,
			ProjectID:   projectID,
			OwnerID:     ownerID,
			Location:    NormalizeLocation(row["location"]),
			Biophysical: decodeBiophysical(row),
			Images:      decodeImages(row["images"]),
			CreatedAt:   int64(numberField(row["timestamp"])),
		}
		if raw, ok := byKey[d.Key]; ok {
			imp := decodeImpacts(decodeObject(raw))
			rec.Impacts = &imp
		}
		records = append(records, rec)
	}
	return records
}

func decodeObject(raw json.RawMessage) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return map[string]json.RawMessage{}
	}
	return obj
}

// firstString returns the first non-empty of the named fields.
func firstString(row map[string]json.RawMessage, names ...string) string {
	for _, n := range names {
		if v := stringField(row[n]); v != "" {
			return v
		}
	}
	return ""
}

// decodeBiophysical reads a biophysical row. Mobile clients store a few
// attributes under short keys (map, rainfall, fepa); both spellings are
// accepted with the short key taking precedence.
func decodeBiophysical(row map[string]json.RawMessage) domain.BiophysicalAttributes {
	return domain.BiophysicalAttributes{
		Elevation:               stringField(row["elevation"]),
		Ecoregion:               stringField(row["ecoregion"]),
		MeanAnnualPrecipitation: firstString(row, "map", "meanAnnualPrecipitation"),
		RainfallSeasonality:     firstString(row, "rainfall", "rainfallSeasonality"),
		Evapotranspiration:      stringField(row["evapotranspiration"]),
		Geology:                 stringField(row["geology"]),
		WaterManagementArea:     stringField(row["waterManagementArea"]),
		SoilErodibility:         stringField(row["soilErodibility"]),
		VegetationType:          stringField(row["vegetationType"]),
		ConservationStatus:      stringField(row["conservationStatus"]),
		FepaFeatures:            firstString(row, "fepa", "fepaFeatures"),
	}
}

func decodeImpacts(row map[string]json.RawMessage) domain.PhaseImpacts {
	return domain.PhaseImpacts{
		RunoffHardSurfaces: stringField(row["runoffHardSurfaces"]),
		RunoffSepticTanks:  stringField(row["runoffSepticTanks"]),
		SedimentInput:      stringField(row["sedimentInput"]),
		FloodPeaks:         stringField(row["floodPeaks"]),
		Pollution:          stringField(row["pollution"]),
		WeedsIAP:           stringField(row["weedsIAP"]),
	}
}

// decodeImages keeps every entry, including ones still missing a URL, so the
// image count matches what was stored.
func decodeImages(raw json.RawMessage) []domain.Image {
	var images []domain.Image
	if err := json.Unmarshal(raw, &images); err != nil {
		return nil
	}
	return images
}
