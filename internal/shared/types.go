package shared

// Asynq task types + queues dùng chung giữa api và worker
const (
	TypeProcessCampgroundImage = "campground:process_image"

	QueueCampground = "campground"
)

// ProcessImagePayload - payload của TypeProcessCampgroundImage
type ProcessImagePayload struct {
	Handle string `json:"handle"`
}
