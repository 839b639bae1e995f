// Пакет model — доменные модели Cinemapp.
// User — документ коллекции users, Film — документ коллекции films.
package model

// User — пользователь приложения.
// Хранится в MongoDB (коллекция users, _id — строковый UUID).
type User struct {
	// ID — UUID пользователя (задаётся при регистрации)
	ID string `bson:"_id"`
	// Username — уникальное имя пользователя (unique index)
	Username string `bson:"username"`
	// PasswordHash — bcrypt-хэш пароля. Наружу не отдаётся.
	PasswordHash string `bson:"password_hash"`
	// Likes — множество UUID понравившихся фильмов.
	// Мутации только через атомарные $addToSet / $pull.
	Likes []string `bson:"likes"`
}
