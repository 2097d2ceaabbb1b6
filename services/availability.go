package services

import (
	"time"

	"github.com/campus-dining/dining-station/models"
)

// ResolveStatus menghitung status operasional restaurant pada satu instant.
// Fungsi murni tanpa side effect supaya murah dipanggil di setiap render
// listing dan sebelum setiap penempatan order.
//
// Urutan keputusan:
//  1. Manual override (open/busy/closed) memotong jadwal sepenuhnya.
//  2. Override yang tidak dikenal -> Closed (fail-safe).
//  3. auto: cek jadwal hari ini; hari tidak ada / disabled -> Closed.
//  4. Bandingkan jam lokal "HH:MM" secara leksikografis, inklusif dua sisi.
//
// Known limitation: perbandingan string rusak untuk jadwal yang melewati
// tengah malam (close < open). Itu perilaku yang dipertahankan, bukan bug
// yang diperbaiki diam-diam.
func ResolveStatus(hours map[string]models.DaySchedule, override models.StatusOverride, now time.Time) models.OperationalStatus {
	switch override {
	case models.OverrideClosed:
		return models.StatusClosed
	case models.OverrideBusy:
		return models.StatusBusy
	case models.OverrideOpen:
		return models.StatusOpen
	case models.OverrideAuto:
		// lanjut ke jadwal
	default:
		return models.StatusClosed
	}

	day, ok := hours[now.Weekday().String()]
	if !ok || !day.Enabled {
		return models.StatusClosed
	}

	clock := now.Format("15:04")
	if day.Open <= clock && clock <= day.Close {
		return models.StatusOpen
	}
	return models.StatusClosed
}
