package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание снимка для разметки
	StateProcessing    UserState = "processing"     // Снимок на инференсе и отрисовке
)

// User представляет пользователя бота
type User struct {
	ID      int64     // Telegram User ID
	ChatID  int64     // Telegram Chat ID
	State   UserState // Текущее состояние пользователя
	FitMode FitMode   // Выбранная политика масштабирования снимка
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:      userID,
		ChatID:  chatID,
		State:   StateMainMenu,
		FitMode: FitStretch,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// ToggleFitMode переключает политику масштабирования и возвращает новую.
func (u *User) ToggleFitMode() FitMode {
	u.FitMode = u.FitMode.Toggle()
	return u.FitMode
}

// CanAcceptPhoto сообщает, ждёт ли пользователь снимок.
func (u *User) CanAcceptPhoto() bool {
	return u.State == StateAwaitingPhoto || u.State == StateMainMenu
}
