package i18n

// UI label keys. Notification keys match recorder.MessageKey values.
const (
	KeyTitle         = "title"
	KeyPracticeText  = "practice_text"
	KeyPlaceholder   = "placeholder"
	KeyTopic         = "topic"
	KeyIdle          = "idle"
	KeyRecording     = "recording"
	KeyProcessing    = "processing"
	KeyScore         = "score"
	KeyPronunciation = "pronunciation"
	KeyFluency       = "fluency"
	KeyFeedback      = "feedback"
	KeyHelp          = "help"
	KeyLanguage      = "language"
	KeyNoSample      = "no_sample"
)

var catalogs = map[Lang]map[string]string{
	English: {
		KeyTitle:         "Speech Practice",
		KeyPracticeText:  "Practice text",
		KeyPlaceholder:   "Type a sentence to read aloud",
		KeyTopic:         "Topic",
		KeyIdle:          "Ready",
		KeyRecording:     "Recording",
		KeyProcessing:    "Evaluating",
		KeyScore:         "Score",
		KeyPronunciation: "Pronunciation",
		KeyFluency:       "Fluency",
		KeyFeedback:      "Feedback",
		KeyHelp:          "ctrl+r record/stop • ctrl+g sample • tab topic • ctrl+l language • esc quit",
		KeyLanguage:      "Language",
		KeyNoSample:      "No sample sentences for this topic",

		"recording_started":   "Recording started, speak now",
		"recording_stopped":   "Recording stopped, evaluating",
		"permission_denied":   "Microphone access was denied",
		"device_unavailable":  "Microphone is unavailable",
		"missing_input":       "Enter the practice text first",
		"evaluation_done":     "Evaluation complete",
		"evaluation_rejected": "The evaluation was not successful",
		"evaluation_failed":   "Evaluation failed, please try again",
	},
	Chinese: {
		KeyTitle:         "口语练习",
		KeyPracticeText:  "练习文本",
		KeyPlaceholder:   "输入要朗读的句子",
		KeyTopic:         "主题",
		KeyIdle:          "就绪",
		KeyRecording:     "录音中",
		KeyProcessing:    "评估中",
		KeyScore:         "总分",
		KeyPronunciation: "发音",
		KeyFluency:       "流利度",
		KeyFeedback:      "反馈",
		KeyHelp:          "ctrl+r 录音/停止 • ctrl+g 示例 • tab 主题 • ctrl+l 语言 • esc 退出",
		KeyLanguage:      "语言",
		KeyNoSample:      "该主题没有示例句子",

		"recording_started":   "开始录音，请说话",
		"recording_stopped":   "录音结束，正在评估",
		"permission_denied":   "无法访问麦克风，请检查权限",
		"device_unavailable":  "麦克风不可用",
		"missing_input":       "请先输入练习文本",
		"evaluation_done":     "评估完成",
		"evaluation_rejected": "评估未成功",
		"evaluation_failed":   "评估失败，请重试",
	},
	Vietnamese: {
		KeyTitle:         "Luyện nói AI",
		KeyPracticeText:  "Văn bản luyện tập",
		KeyPlaceholder:   "Nhập câu cần đọc to",
		KeyTopic:         "Chủ đề",
		KeyIdle:          "Sẵn sàng",
		KeyRecording:     "Đang ghi âm",
		KeyProcessing:    "Đang đánh giá",
		KeyScore:         "Điểm",
		KeyPronunciation: "Phát âm",
		KeyFluency:       "Độ trôi chảy",
		KeyFeedback:      "Nhận xét",
		KeyHelp:          "ctrl+r ghi/dừng • ctrl+g câu mẫu • tab chủ đề • ctrl+l ngôn ngữ • esc thoát",
		KeyLanguage:      "Ngôn ngữ",
		KeyNoSample:      "Chủ đề này chưa có câu mẫu",

		"recording_started":   "Bắt đầu ghi âm, hãy nói",
		"recording_stopped":   "Đã dừng ghi âm, đang đánh giá",
		"permission_denied":   "Không có quyền truy cập micro",
		"device_unavailable":  "Micro không khả dụng",
		"missing_input":       "Vui lòng nhập văn bản luyện tập trước",
		"evaluation_done":     "Đánh giá hoàn tất",
		"evaluation_rejected": "Đánh giá không thành công",
		"evaluation_failed":   "Đánh giá thất bại, vui lòng thử lại",
	},
}

// topicNames localizes the built-in topic ids.
var topicNames = map[Lang]map[string]string{
	English: {
		"daily":    "Daily conversation",
		"travel":   "Travel",
		"business": "Business",
		"academic": "Academic",
		"intro":    "Self introduction",
	},
	Chinese: {
		"daily":    "日常对话",
		"travel":   "旅行",
		"business": "商务",
		"academic": "学术",
		"intro":    "自我介绍",
	},
	Vietnamese: {
		"daily":    "Hội thoại hằng ngày",
		"travel":   "Du lịch",
		"business": "Kinh doanh",
		"academic": "Học thuật",
		"intro":    "Giới thiệu bản thân",
	},
}

// TopicName returns the display name of a topic id, or the id itself.
func (l Lang) TopicName(topic string) string {
	if s, ok := topicNames[l][topic]; ok {
		return s
	}
	return topic
}
