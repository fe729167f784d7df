package services

import (
	"database/sql"
	"log"
	"time"

	"maia-sss/app/database"
	"maia-sss/app/metrics"
)

// StartReminderScheduler starts the background job that flags tomorrow's
// parent meetings as reminded. It wakes every minute and runs the sweep
// once a day at 7:00 AM local time.
func StartReminderScheduler(db *sql.DB, collector *metrics.Collector) {
	go func() {
		log.Println("Reminder scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			if now.Hour() == 7 && now.Minute() == 0 {
				log.Println("Running meeting reminder sweep [07:00]...")
				if err := SendMeetingReminders(db, collector); err != nil {
					log.Printf("Error sending meeting reminders: %v", err)
					if collector != nil {
						collector.RecordReminderFailure()
					}
				}
			}
		}
	}()
}

// SendMeetingReminders marks tomorrow's scheduled meetings as reminded.
// Actual delivery (email, calendar) happens out of band; this records
// that the reminder went out so the sweep never double-sends.
func SendMeetingReminders(db *sql.DB, collector *metrics.Collector) error {
	meetings, err := database.MeetingsNeedingReminder(db)
	if err != nil {
		return err
	}

	for _, meeting := range meetings {
		if err := database.MarkReminderSent(db, meeting.ID); err != nil {
			log.Printf("Error marking reminder for meeting %s: %v", meeting.ID, err)
			continue
		}
		log.Printf("Reminder recorded for meeting %s (student %s)", meeting.ID, meeting.StudentName)
		if collector != nil {
			collector.RecordReminderSent()
		}
	}
	return nil
}
