package models

// Constructor represents one team entry in the constructors' championship.
type Constructor struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Position int    `gorm:"index" json:"position"`
	Team     string `gorm:"size:64;not null" json:"team"`
	Color    string `gorm:"size:16" json:"color"`
	Drivers  string `gorm:"size:128" json:"drivers"` // 车手名单，如 "Verstappen / Perez"
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Podiums  int    `json:"podiums"`
	Season   int    `gorm:"index" json:"season"`
}
