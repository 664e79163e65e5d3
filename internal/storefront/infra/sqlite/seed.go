package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type seedProduct struct {
	name, description, price string
	category                 int
	image                    string
	featured                 bool
}

var seedCategories = []struct{ name, description string }{
	{"Caldos e Sopas", "Caldos, sopas e cremes caseiros"},
	{"Refeições Completas", "Pratos principais e refeições completas"},
	{"Bebidas", "Sucos, refrigerantes e águas"},
	{"Sobremesas", "Doces e sobremesas caseiras"},
}

var seedProducts = []seedProduct{
	{"Caldo Verde Tradicional", "Couve fresca, linguiça defumada e batatas selecionadas.", "22.50", 0, "/uploads/caldo_verde.png", true},
	{"Canjinha da Vovó", "Arroz, frango desfiado, cenoura e temperos naturais.", "21.90", 0, "/uploads/canjinha.png", false},
	{"Creme de Mandioquinha com Manjericão", "Creme aveludado de mandioquinha com manjericão fresco.", "23.00", 0, "/uploads/creme_mandioquinha.png", false},
	{"Sopa Minestrone Mediterrânea", "Legumes frescos, feijão branco e massa em caldo rico.", "24.00", 0, "/uploads/sopa_minestrone.png", false},
	{"Strogonoff de Frango Cremoso", "Frango em molho cremoso com champignon.", "62.00", 1, "/uploads/strogonoff_frango.png", true},
	{"Escondidinho de Carne Seca com Queijo Coalho", "Carne seca desfiada sob purê de mandioca.", "58.00", 1, "/uploads/escondidinho_carne_seca.png", false},
	{"Lasanha à Bolonhesa Artesanal", "Massa fresca, molho bolonhesa e mussarela.", "55.00", 1, "/uploads/lasanha_bolonhesa.png", false},
	{"Suco Natural de Laranja (1 Litro)", "Suco 100% natural de laranja.", "8.50", 2, "/uploads/suco_laranja.png", false},
	{"Refrigerante Cola Original (350ml)", "O sabor clássico do refrigerante cola.", "5.50", 2, "/uploads/refrigerante_cola.png", false},
	{"Água Mineral com Gás (500ml)", "Água mineral naturalmente gaseificada.", "4.00", 2, "/uploads/agua_mineral.png", false},
	{"Pudim de Leite Condensado Caseiro", "Pudim tradicional com calda de caramelo.", "18.00", 3, "/uploads/pudim_leite_condensado.png", false},
	{"Bolo de Cenoura com Cobertura de Chocolate", "Bolo de cenoura fofinho com cobertura de chocolate.", "25.00", 3, "/uploads/bolo_cenoura.png", true},
}

// Seed fills an empty catalog with the house menu. It is a no-op when any
// category exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return fmt.Errorf("sqlite: seed: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := formatTime(time.Now())
	return withTx(ctx, db, func(tx *sql.Tx) error {
		ids := make([]int64, len(seedCategories))
		for i, c := range seedCategories {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`,
				c.name, c.description, now)
			if err != nil {
				return fmt.Errorf("sqlite: seed category %q: %w", c.name, err)
			}
			if ids[i], err = res.LastInsertId(); err != nil {
				return fmt.Errorf("sqlite: seed category %q: %w", c.name, err)
			}
		}
		for _, p := range seedProducts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO products
					(name, description, price, category_id, image_url, is_featured, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
				p.name, p.description, p.price, ids[p.category], p.image, p.featured, now, now)
			if err != nil {
				return fmt.Errorf("sqlite: seed product %q: %w", p.name, err)
			}
		}
		return nil
	})
}

// EnsureAdmin creates the admin account if the username is free. An existing
// account keeps its password.
func EnsureAdmin(ctx context.Context, db *sql.DB, username, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (username) DO NOTHING`,
		username, passwordHash, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("sqlite: ensure admin %q: %w", username, err)
	}
	return nil
}
