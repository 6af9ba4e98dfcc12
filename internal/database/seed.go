package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/config"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"gorm.io/gorm"
)

// Seed fills empty constructor/driver tables with the 2024 season baseline
// and backfills drivers that lost their constructor link.
func Seed(db *gorm.DB) error {
	var constructorCount int64
	if err := db.Model(&models.Constructor{}).Count(&constructorCount).Error; err != nil {
		return fmt.Errorf("count constructors: %w", err)
	}
	if constructorCount == 0 {
		log.Println("Seeding initial constructor data...")
		initial := []models.Constructor{
			{Position: 1, Team: "Red Bull Racing", Color: "#3671C6", Drivers: "Verstappen / Perez", Points: 524, Wins: 15, Podiums: 22, Season: 2024},
			{Position: 2, Team: "McLaren", Color: "#FF8700", Drivers: "Norris / Piastri", Points: 412, Wins: 4, Podiums: 18, Season: 2024},
			{Position: 3, Team: "Ferrari", Color: "#DC0000", Drivers: "Leclerc / Sainz", Points: 406, Wins: 3, Podiums: 17, Season: 2024},
			{Position: 4, Team: "Mercedes", Color: "#27F4D2", Drivers: "Hamilton / Russell", Points: 382, Wins: 1, Podiums: 12, Season: 2024},
			{Position: 5, Team: "Aston Martin", Color: "#229971", Drivers: "Alonso / Stroll", Points: 280, Wins: 0, Podiums: 8, Season: 2024},
		}
		if err := db.Create(&initial).Error; err != nil {
			return fmt.Errorf("seed constructors: %w", err)
		}
	} else {
		log.Printf("Found %d constructors in DB", constructorCount)
	}

	var constructors []models.Constructor
	if err := db.Find(&constructors).Error; err != nil {
		return fmt.Errorf("load constructors: %w", err)
	}
	byTeam := make(map[string]uint, len(constructors))
	for _, c := range constructors {
		byTeam[c.Team] = c.ID
	}
	ref := func(team string) *uint {
		if id, ok := byTeam[team]; ok {
			return &id
		}
		return nil
	}

	var driverCount int64
	if err := db.Model(&models.Driver{}).Count(&driverCount).Error; err != nil {
		return fmt.Errorf("count drivers: %w", err)
	}
	if driverCount == 0 {
		log.Println("Seeding initial drivers data...")
		initial := []models.Driver{
			{Name: "Max Verstappen", Team: "Red Bull Racing", ConstructorID: ref("Red Bull Racing"), Nationality: "Dutch", Points: 395, Wins: 14, Podiums: 18, Championships: 3, PolePositions: 12, Starts: 22, Season: 2024,
				ImageURL: "https://e0.365dm.com/f1/drivers/256x256/h_full_1465.png"},
			{Name: "Lando Norris", Team: "McLaren", ConstructorID: ref("McLaren"), Nationality: "British", Points: 285, Wins: 2, Podiums: 12, PolePositions: 7, Starts: 22, Season: 2024,
				ImageURL: "https://www.kymillman.com/wp-content/uploads/f1/pages/driver-profiles/driver-faces/lando-norris-f1-driver-profile-picture.png"},
			{Name: "Charles Leclerc", Team: "Ferrari", ConstructorID: ref("Ferrari"), Nationality: "Monegasque", Points: 252, Wins: 2, Podiums: 8, PolePositions: 5, Starts: 22, Season: 2024,
				ImageURL: "https://www.formulaonehistory.com/wp-content/uploads/2023/10/Charles-Leclerc-F1-2023.webp"},
			{Name: "Sergio Perez", Team: "Red Bull Racing", ConstructorID: ref("Red Bull Racing"), Nationality: "Mexican", Points: 229, Wins: 2, Podiums: 10, PolePositions: 2, Starts: 22, Season: 2024,
				ImageURL: "https://a.espncdn.com/combiner/i?img=/i/headshots/rpm/players/full/4472.png"},
			{Name: "Oscar Piastri", Team: "McLaren", ConstructorID: ref("McLaren"), Nationality: "Australian", Points: 197, Wins: 1, Podiums: 7, PolePositions: 2, Starts: 22, Season: 2024,
				ImageURL: "https://a.espncdn.com/combiner/i?img=/i/headshots/rpm/players/full/5752.png&w=350&h=254"},
		}
		if err := db.Create(&initial).Error; err != nil {
			return fmt.Errorf("seed drivers: %w", err)
		}
	} else {
		log.Printf("Found %d drivers in DB", driverCount)
	}

	// link drivers whose constructor reference is missing
	var unlinked []models.Driver
	if err := db.Where("constructor_id IS NULL").Find(&unlinked).Error; err != nil {
		return fmt.Errorf("find unlinked drivers: %w", err)
	}
	for i := range unlinked {
		if id, ok := byTeam[unlinked[i].Team]; ok {
			unlinked[i].ConstructorID = &id
			if err := db.Save(&unlinked[i]).Error; err != nil {
				return fmt.Errorf("link driver %q: %w", unlinked[i].Name, err)
			}
		}
	}

	return nil
}

// EnsureAdminUser creates or reconciles the bootstrap admin account from
// configuration. A missing email/password skips the bootstrap entirely.
func EnsureAdminUser(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Println("admin email/password not set, skipping admin seed")
		return nil
	}

	username := cfg.Username
	if username == "" {
		username = "admin"
	}
	email := strings.ToLower(cfg.Email)

	var admin models.User
	err := db.Where("email = ? OR username = ?", email, username).First(&admin).Error
	if err == gorm.ErrRecordNotFound {
		log.Println("Creating admin user...")
		hash, hashErr := util.HashPassword(cfg.Password)
		if hashErr != nil {
			return fmt.Errorf("hash admin password: %w", hashErr)
		}
		admin = models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup admin user: %w", err)
	}

	needsSave := false
	if admin.Role != models.RoleAdmin {
		admin.Role = models.RoleAdmin
		needsSave = true
	}
	if admin.Username != username {
		admin.Username = username
		needsSave = true
	}
	if admin.Email != email {
		var owner models.User
		ownErr := db.Where("email = ?", email).First(&owner).Error
		if ownErr == gorm.ErrRecordNotFound || (ownErr == nil && owner.ID == admin.ID) {
			admin.Email = email
			needsSave = true
		} else if ownErr == nil {
			log.Println("admin email is already used by another account, skipping email update")
		} else {
			return fmt.Errorf("check admin email owner: %w", ownErr)
		}
	}
	if !util.CheckPassword(cfg.Password, admin.PasswordHash) {
		hash, hashErr := util.HashPassword(cfg.Password)
		if hashErr != nil {
			return fmt.Errorf("hash admin password: %w", hashErr)
		}
		admin.PasswordHash = hash
		needsSave = true
	}
	if needsSave {
		if err := db.Save(&admin).Error; err != nil {
			return fmt.Errorf("update admin user: %w", err)
		}
		log.Println("Admin user updated from environment settings")
	}
	return nil
}
