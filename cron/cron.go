package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
	"github.com/huellitas/vetclinic-api/utils"
)

// StartCronJobs schedules the daily reminder run. Reminders go out at
// 18:00 for the next day's confirmed citas.
func StartCronJobs() {
	c := cron.New()
	_, err := c.AddFunc("0 18 * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders mails every confirmed cita scheduled for
// tomorrow.
func sendAppointmentReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []models.Appointment
	err := db.DB.
		Preload("Client").
		Preload("Pet").
		Preload("Service").
		Preload("Branch").
		Where("status = ? AND date = ?", models.StatusConfirmed, tomorrow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	log.Printf("Found %d appointments for reminders", len(appointments))

	for _, appointment := range appointments {
		if appointment.Client.Email == "" {
			continue
		}
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Client.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := fmt.Sprintf("Recordatorio: cita de %s mañana", appointment.Pet.Name)
	body := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Te recordamos la cita de mañana para tu mascota.</p>
		<p><strong>Detalles:</strong></p>
		<ul>
			<li><strong>Mascota:</strong> %s</li>
			<li><strong>Servicio:</strong> %s</li>
			<li><strong>Sucursal:</strong> %s, %s</li>
			<li><strong>Fecha:</strong> %s</li>
			<li><strong>Hora:</strong> %s</li>
		</ul>
		<p>Si necesitas reprogramar o cancelar, contáctanos lo antes posible.</p>
		<p>Clínica Veterinaria Huellitas</p>
	`, appointment.Client.Name, appointment.Pet.Name, appointment.Service.Name,
		appointment.Branch.Name, appointment.Branch.Address,
		appointment.Date, appointment.Time)

	return utils.SendEmail(appointment.Client.Email, subject, body)
}
