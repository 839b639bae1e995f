// Пакет repository — слой доступа к данным MongoDB для Cinemapp.
// Коллекции users и films, ключ — строковый UUID в _id.
// Все запросы — чистый mongo-driver, без ODM.
package repository

import "errors"

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicate — запись с таким уникальным ключом уже существует.
	ErrDuplicate = errors.New("запись уже существует")
)

// Имена коллекций.
const (
	usersCollection = "users"
	filmsCollection = "films"
)
