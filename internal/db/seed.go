package db

import (
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/models"
)

// Seed inserts the discipline lookup rows. Called during initial database
// setup or migration; uses FirstOrCreate so reruns are harmless.
func Seed(conn *gorm.DB) error {
	disciplines := []models.Discipline{
		{Code: "spada_lunga", NameIT: "Spada lunga", NameEN: "Longsword", NameDE: "Langes Schwert"},
		{Code: "spada_brocchiere", NameIT: "Spada e brocchiere", NameEN: "Sword and buckler", NameDE: "Schwert und Buckler"},
		{Code: "striscia", NameIT: "Striscia", NameEN: "Rapier", NameDE: "Rapier"},
		{Code: "sciabola", NameIT: "Sciabola", NameEN: "Sabre", NameDE: "Säbel"},
		{Code: "daga", NameIT: "Daga", NameEN: "Dagger", NameDE: "Dolch"},
		{Code: "lotta", NameIT: "Lotta", NameEN: "Wrestling", NameDE: "Ringen"},
		{Code: "bastone", NameIT: "Bastone", NameEN: "Staff", NameDE: "Stab"},
	}
	for _, d := range disciplines {
		discipline := d
		if err := conn.Where("code = ?", d.Code).FirstOrCreate(&discipline).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin grants platform_admin to the account with the given email, if it
// exists. Used to bootstrap the first administrator from configuration.
func SeedAdmin(conn *gorm.DB, email string) error {
	if email == "" {
		return nil
	}
	var user models.User
	if err := conn.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	assignment := models.UserRole{UserID: user.ID, Role: models.RolePlatformAdmin}
	return conn.Where("user_id = ? AND role = ?", user.ID, models.RolePlatformAdmin).
		FirstOrCreate(&assignment).Error
}
