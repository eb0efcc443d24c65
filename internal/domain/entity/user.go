package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu   UserState = "main_menu"  // В главном меню
	StateInspecting UserState = "inspecting" // Идёт осмотр, бот ждёт фото или команды фазы
)

// User представляет пользователя бота
type User struct {
	ID        int64     // Telegram User ID
	ChatID    int64     // Telegram Chat ID
	State     UserState // Текущее состояние пользователя
	SessionID string    // Идентификатор открытой сессии осмотра, пустой если её нет
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// BindSession привязывает пользователя к открытой сессии осмотра.
// У одного пользователя может быть только одна активная сессия.
func (u *User) BindSession(sessionID string) {
	u.SessionID = sessionID
	u.State = StateInspecting
}

// UnbindSession отвязывает сессию и возвращает пользователя в главное меню.
func (u *User) UnbindSession() {
	u.SessionID = ""
	u.State = StateMainMenu
}
