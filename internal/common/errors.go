// Package common - errors.go определяет ошибки, которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import (
	"errors"
	"fmt"
)

// Ошибки разбора отчёта
var (
	// ErrInvalidDateFormat - заголовок отчёта найден, но дата в нём некорректна
	ErrInvalidDateFormat = errors.New("неверный формат даты")
)

// Ошибки приёма отчёта
var (
	// ErrDuplicateSession - за эту дату в группе уже есть сессия
	ErrDuplicateSession = errors.New("сессия за эту дату уже сохранена")
)

// Ошибки статистики
var (
	// ErrGroupNotFound - группа ещё не известна боту
	ErrGroupNotFound = errors.New("группа не найдена")
)

// ErrStorage - общий признак сбоя хранилища, см. StorageError.
var ErrStorage = errors.New("ошибка хранилища")

// StorageError оборачивает ошибку БД с названием операции.
// errors.Is(err, ErrStorage) == true для любой StorageError.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage заворачивает err в StorageError. nil остаётся nil,
// уже обёрнутые и доменные ошибки не трогаем.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrDuplicateSession) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
