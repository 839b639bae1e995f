package model

// Film — фильм каталога.
// Хранится в MongoDB (коллекция films, _id — строковый UUID).
// После массовой загрузки запись неизменяема.
type Film struct {
	// ID — UUID фильма (задаётся при загрузке)
	ID string `bson:"_id" json:"id"`
	// Name — название фильма
	Name string `bson:"name" json:"name"`
}
