package services

import (
	"pasar/internal/errs"

	"go.uber.org/zap"
)

// logFailure logs refusals of a known kind at info and anything else at error.
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if kind := errs.Kind(err); kind != nil {
		logger.Info(msg, append(fields, zap.String("kind", kind.Error()))...)
		return
	}
	logger.Error(msg, fields...)
}
