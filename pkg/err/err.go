package errprocess

import (
	"errors"
	"fmt"

	"emotion_music_service/pkg/logger"

	"go.uber.org/zap"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap 記錄並包裝錯誤，保留 errors.Is / errors.As 的判斷
func Wrap(errMsg string, err error, fields ...zap.Field) error {
	logger.Log.Error(errMsg, append(fields, zap.Error(err))...)
	return fmt.Errorf("%s: %w", errMsg, err)
}
