package request

type DayViewQuery struct {
	Date string `form:"date" binding:"required"`
}

type UserBookingsQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
}

type CalendarQuery struct {
	Month string `form:"month"`
}
