package service

import "errors"

var (
	// ErrValidation - отсутствует обязательное поле или значение вне допустимого набора
	ErrValidation = errors.New("validation error")
	// ErrNotFound - запись с указанным идентификатором не существует
	ErrNotFound = errors.New("not found")
	// ErrConflict - предусловие обновления не выполнено (запись изменена параллельно)
	ErrConflict = errors.New("conflict")
	// ErrUserExists - имя пользователя уже занято в этой роли
	ErrUserExists = errors.New("username already exists")
	// ErrInvalidCredentials - неверное имя пользователя или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized - токен доступа отсутствует, просрочен или подделан
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCacheStale - лента изменилась после чтения, запись в кеш пропущена
	ErrCacheStale = errors.New("cache is stale")
)
