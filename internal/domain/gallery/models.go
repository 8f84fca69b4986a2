package gallery

import "time"

// Occasion pools. An employee-kind occasion draws its picker images from the
// employee library; an occasion-kind one from the generic occasion library.
const (
	KindEmployee = "employee"
	KindOccasion = "occasion"
)

const (
	OccasionBirthday        = "birthday"
	OccasionWorkAnniversary = "work_anniversary"
	OccasionWelcome         = "welcome"
	OccasionFarewell        = "farewell"
	OccasionFestival        = "festival"
	OccasionAchievement     = "achievement"
	OccasionHoliday         = "holiday"
	OccasionAnnouncement    = "announcement"
)

// occasionKinds is the fixed tag set; unlisted values are rejected.
var occasionKinds = map[string]string{
	OccasionBirthday:        KindEmployee,
	OccasionWorkAnniversary: KindEmployee,
	OccasionWelcome:         KindEmployee,
	OccasionFarewell:        KindEmployee,
	OccasionAchievement:     KindEmployee,
	OccasionFestival:        KindOccasion,
	OccasionHoliday:         KindOccasion,
	OccasionAnnouncement:    KindOccasion,
}

// OccasionKind returns the image-pool kind for an occasion tag. The empty
// occasion is allowed and uses the generic pool.
func OccasionKind(occasion string) (string, bool) {
	if occasion == "" {
		return KindOccasion, true
	}
	kind, ok := occasionKinds[occasion]
	return kind, ok
}

// Occasions lists the valid tags with their kinds, for pickers.
func Occasions() map[string]string {
	out := make(map[string]string, len(occasionKinds))
	for occasion, kind := range occasionKinds {
		out[occasion] = kind
	}
	return out
}

type Quote struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Quote     string    `json:"quote"`
	Occasion  string    `json:"occasion,omitempty"`
	ImagePath string    `json:"imagePath,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LibraryImage is one entry of a shared image pool.
type LibraryImage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	ImagePath string    `json:"imagePath"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
