package domain

import (
	"strings"
	"time"
)

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Position  string
}

func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type Client struct {
	ID            string
	OwnerID       string
	CompanyName   string
	CompanyRegNum string
	CompanyType   string
	ContactEmail  string
	ContactPerson string
	ContactPhone  string
	Address       string
	ImageURL      string
	CreatedAt     int64
}

type Project struct {
	ID              string
	ClientID        string
	OwnerID         string
	ProjectName     string
	CompanyName     string
	CompanyEmail    string
	AppUserUsername string
	ImageURL        string
	CreatedAt       int64
}

// GeoLocation is the canonical location of a field record. Lat and Lng are
// both zero when the record carries no coordinates.
type GeoLocation struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description"`
}

func (g GeoLocation) HasCoordinates() bool {
	return g.Lat != 0 || g.Lng != 0
}

type BiophysicalAttributes struct {
	Elevation               string
	Ecoregion               string
	MeanAnnualPrecipitation string
	RainfallSeasonality     string
	Evapotranspiration      string
	Geology                 string
	WaterManagementArea     string
	SoilErodibility         string
	VegetationType          string
	ConservationStatus      string
	FepaFeatures            string
}

// Attribute is one named field of a fixed attribute set.
type Attribute struct {
	Name  string
	Value string
}

// Fields lists the attributes in their canonical order.
func (b BiophysicalAttributes) Fields() []Attribute {
	return []Attribute{
		{"elevation", b.Elevation},
		{"ecoregion", b.Ecoregion},
		{"meanAnnualPrecipitation", b.MeanAnnualPrecipitation},
		{"rainfallSeasonality", b.RainfallSeasonality},
		{"evapotranspiration", b.Evapotranspiration},
		{"geology", b.Geology},
		{"waterManagementArea", b.WaterManagementArea},
		{"soilErodibility", b.SoilErodibility},
		{"vegetationType", b.VegetationType},
		{"conservationStatus", b.ConservationStatus},
		{"fepaFeatures", b.FepaFeatures},
	}
}

type PhaseImpacts struct {
	RunoffHardSurfaces string
	RunoffSepticTanks  string
	SedimentInput      string
	FloodPeaks         string
	Pollution          string
	WeedsIAP           string
}

// Fields lists the impacts in their canonical order.
func (p PhaseImpacts) Fields() []Attribute {
	return []Attribute{
		{"runoffHardSurfaces", p.RunoffHardSurfaces},
		{"runoffSepticTanks", p.RunoffSepticTanks},
		{"sedimentInput", p.SedimentInput},
		{"floodPeaks", p.FloodPeaks},
		{"pollution", p.Pollution},
		{"weedsIAP", p.WeedsIAP},
	}
}

type Image struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// FieldRecord is one logical observation joined from a biophysical row and an
// impacts row sharing the same key. Impacts is nil when no impacts row was
// recorded, which is distinct from a row whose fields are all blank.
type FieldRecord struct {
	ID          string
	ProjectID   string
	OwnerID     string
	Location    GeoLocation
	Biophysical BiophysicalAttributes
	Impacts     *PhaseImpacts
	Images      []Image
	CreatedAt   int64
}

func (r FieldRecord) Created() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

type Conversation struct {
	ID        string
	Question  string
	Response  string
	Timestamp int64
}

type Weather struct {
	LocationName string
	Region       string
	TempC        float64
	Condition    string
	IconURL      string
	WindKph      float64
	Humidity     int
}
