package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendia-app/agendia/internal/dto"
	"github.com/agendia-app/agendia/internal/httperr"
	"github.com/agendia-app/agendia/internal/httpresp"
	"github.com/agendia-app/agendia/internal/middleware"
	ucAppointment "github.com/agendia-app/agendia/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	listUC   *ucAppointment.ListAppointments
	cancelUC *ucAppointment.CancelAppointment
}

func NewAppointmentHandler(
	listUC *ucAppointment.ListAppointments,
	cancelUC *ucAppointment.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		listUC:   listUC,
		cancelUC: cancelUC,
	}
}

// ======================================================
// LIST
// ======================================================

// List aceita ?start=RFC3339&end=RFC3339; ambos opcionais.
func (h *AppointmentHandler) List(c *gin.Context) {
	telegramID := c.MustGet(middleware.ContextTelegramUserID).(string)

	start, err := parseTimeQuery(c.Query("start"))
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "Data inicial inválida.")
		return
	}
	end, err := parseTimeQuery(c.Query("end"))
	if err != nil {
		httperr.BadRequest(c, "invalid_end", "Data final inválida.")
		return
	}

	apps, err := h.listUC.Execute(c.Request.Context(), telegramID, start, end)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, dto.FromAppointments(apps))
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	telegramID := c.MustGet(middleware.ContextTelegramUserID).(string)
	appointmentID := c.Param("id")

	ap, err := h.cancelUC.Execute(c.Request.Context(), telegramID, appointmentID)
	if err != nil {
		if httperr.IsBusiness(err, "appointment_not_found") {
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		return
	}

	resp := dto.FromAppointment(ap)
	httpresp.OK(c, resp)
}

// ======================================================
// HELPERS
// ======================================================

func parseTimeQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
