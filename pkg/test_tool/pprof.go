package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"emotion_music_service/pkg/config"
	"emotion_music_service/pkg/logger"
)

// PprofAddr pprof 監聽位址
const PprofAddr = ":6060"

// StartPprof 非 production 環境時啟動 pprof 監控伺服器，回傳是否啟動
func StartPprof() bool {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return false
	}

	go func() {
		logger.Log.Info("Starting pprof server on " + PprofAddr)
		if err := http.ListenAndServe(PprofAddr, nil); err != nil {
			logger.Log.Errorf("pprof server failed:", err)
		}
	}()
	return true
}

// 確認 pprof 是否啟動
//   curl http://localhost:6060/debug/pprof/
// 執行 30 秒 CPU Profile
//   go tool pprof http://localhost:6060/debug/pprof/profile?seconds=30
