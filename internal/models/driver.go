package models

// Driver represents one driver entry in the drivers' championship.
type Driver struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:64;not null" json:"name"`
	Team          string `gorm:"size:64" json:"team"`
	ConstructorID *uint  `gorm:"index" json:"constructorId"`
	Nationality   string `gorm:"size:32" json:"nationality"`
	Points        int    `json:"points"`
	Wins          int    `json:"wins"`
	Podiums       int    `json:"podiums"`
	Championships int    `json:"championships"`
	PolePositions int    `json:"polePositions"`
	Starts        int    `json:"starts"`
	Season        int    `gorm:"index" json:"season"`
	ImageURL      string `gorm:"size:512" json:"image_url"`

	Constructor *Constructor `json:"constructor,omitempty"`
}
