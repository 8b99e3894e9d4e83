package database

import (
	"fmt"
	"log"
	"test_portal_backend/internal/config"
	"test_portal_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, admin *config.AdminConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.Question{},
		&model.Attempt{},
		&model.RevisionMark{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedAdmin(db, admin); err != nil {
		return nil, err
	}

	return db, nil
}

// seedAdmin creates the bootstrap administrator when no admin exists yet.
// Registration only ever produces students, so without this the roster and
// analytics endpoints would be unreachable on a fresh deployment.
func seedAdmin(db *gorm.DB, admin *config.AdminConfig) error {
	if admin == nil || admin.Email == "" {
		return nil
	}

	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	user := &model.User{
		Name:     name,
		Email:    admin.Email,
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("Seeded bootstrap admin account %s", admin.Email)
	return nil
}
