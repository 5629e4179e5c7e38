package util

import "errors"

var (
	ErrStudentNotFound      = errors.New("estudiante no encontrado")
	ErrNotJuniorStudent     = errors.New("esta app es solo para estudiantes Junior")
	ErrInvalidExchangeCode  = errors.New("código de intercambio inválido")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("curso no encontrado")
	ErrLessonNotFound       = errors.New("lección no encontrada")
	ErrLessonNotInCourse    = errors.New("la lección no pertenece al curso")
	ErrExamNotFound         = errors.New("examen no encontrado")
	ErrIncompleteAnswers    = errors.New("faltan respuestas del examen")
	ErrInvalidXpReason      = errors.New("invalid xp reason")
	ErrInvalidXpAmount      = errors.New("invalid xp amount")
	ErrDailyPostLimit       = errors.New("daily post limit reached (max 3)")
	ErrPostNotFound         = errors.New("publicación no encontrada")
	ErrReactionNotFound     = errors.New("reacción no encontrada")
	ErrInvalidReactionType  = errors.New("invalid reaction type")
	ErrNotificationNotFound = errors.New("notificación no encontrada")
)
