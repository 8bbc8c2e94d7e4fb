package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategory is one of the canonical support areas the UI ships with.
type seedCategory struct {
	name        string
	slug        string
	icon        string
	color       string
	description string
}

// Seed populates the database with the canonical categories when the
// categories table is empty. Problems and tags are created by admins,
// so only the category taxonomy is seeded.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	cats := []seedCategory{
		{"Hardware", "hardware", "cpu", "#ff6b35", "ปัญหาคอมพิวเตอร์และอุปกรณ์ต่อพ่วง"},
		{"Software", "software", "monitor", "#00d4ff", "ปัญหาโปรแกรมและระบบปฏิบัติการ"},
		{"Network", "network", "wifi", "#00ff41", "ปัญหาเครือข่ายและอินเทอร์เน็ต"},
		{"Security", "security", "shield", "#ff3a3a", "ปัญหาความปลอดภัยและไวรัส"},
		{"Email", "email", "mail", "#ffb800", "ปัญหาอีเมลและการส่งข้อความ"},
		{"Printer", "printer", "printer", "#a855f7", "ปัญหาเครื่องพิมพ์และการพิมพ์"},
	}

	for _, c := range cats {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, icon, color, description)
			VALUES ($1, $2, $3, $4, $5)
		`, c.name, c.slug, c.icon, c.color, c.description)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.slug, err)
		}
	}

	slog.Info("database seeded with default categories", "count", len(cats))
	return nil
}
