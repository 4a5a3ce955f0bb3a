package bot

import "fmt"

// Messages содержит тексты сообщений бота
type Messages struct{}

// NewMessages создает новый набор сообщений
func NewMessages() *Messages {
	return &Messages{}
}

// Welcome приветственное сообщение
func (m *Messages) Welcome() string {
	return `👋 Привет! Я озвучиваю YouTube видео.

Пришли мне ссылку на видео с субтитрами, и я пришлю аудио с озвученным транскриптом.

Команды:
/voices — список доступных голосов
/voice <id> — выбрать голос
/help — помощь`
}

// Help справка по командам
func (m *Messages) Help() string {
	return `Пришли ссылку на YouTube видео, у которого есть субтитры.

Я получу транскрипт, перепишу его под устную речь и озвучу выбранным голосом.

/voices — список доступных голосов
/voice <id> — выбрать голос для озвучки`
}

// Error сообщение об ошибке
func (m *Messages) Error(text string) string {
	return "❌ " + text
}

// Processing сообщение о начале обработки
func (m *Messages) Processing() string {
	return "⏳ Получаю субтитры и начинаю озвучку..."
}

// Progress сообщение о прогрессе обработки
func (m *Messages) Progress(completed, total int) string {
	percent := completed * 100 / total
	return fmt.Sprintf("🎙 Озвучиваю: %d%% (%d из %d фрагментов)", percent, completed, total)
}

// Busy сообщение о том, что предыдущая задача еще выполняется
func (m *Messages) Busy() string {
	return "⏳ Предыдущее видео еще обрабатывается, подожди немного."
}

// VoiceChanged подтверждение смены голоса
func (m *Messages) VoiceChanged(voiceID string) string {
	return "✅ Голос изменен: " + voiceID
}
