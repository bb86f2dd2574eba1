package feed

import (
	"time"

	"go.azadstudio.dev/pulsefeed/internal/types"
)

// fallbackMessages is the canned studio feed shown when every bridge
// is unreachable.
func fallbackMessages(channel string) []types.Message {
	now := time.Now()
	ago := func(h int) string {
		return now.Add(-time.Duration(h) * time.Hour).Format(time.RFC3339)
	}

	return []types.Message{
		{
			ID:      "101",
			Content: "📢 NEW TUTORIAL: Building a Telegram Mini App with React & Node.js!\n\nIn this video, I break down the entire process of setting up the bot, configuring the web app, and deploying it.\n\n👇 Watch now on YouTube!",
			Date:    ago(2),
			Views:   3420,
			Author:  channel,
			Media: &types.MediaAttachment{
				Type: types.MediaPhoto,
				URL:  "https://images.unsplash.com/photo-1633356122544-f134324a6cee?auto=format&fit=crop&w=800&q=80",
			},
			Reactions: []types.Reaction{
				{Emoji: "🔥", Count: 245, UserReacted: true},
				{Emoji: "❤️", Count: 180, UserReacted: false},
			},
		},
		{
			ID:      "102",
			Content: "Code Snippet of the Day: Python Asyncio 🐍\n\nWhen writing Telegram bots, mastering async/await is crucial for handling multiple user requests concurrently without blocking.",
			Date:    ago(24),
			Views:   5100,
			Author:  channel,
			Reactions: []types.Reaction{
				{Emoji: "👍", Count: 500, UserReacted: true},
				{Emoji: "🎉", Count: 120, UserReacted: false},
			},
		},
		{
			ID:      "103",
			Content: "We are LIVE! 🔴\n\nJoin the stream where we are reviewing your portfolio websites. Drop your links in the comments section!",
			Date:    ago(48),
			Views:   8900,
			Author:  channel,
			Media: &types.MediaAttachment{
				Type:         types.MediaVideo,
				URL:          "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/TearsOfSteel.mp4",
				ThumbnailURL: "https://images.unsplash.com/photo-1498050108023-c5249f4df085?auto=format&fit=crop&w=800&q=80",
			},
			Reactions: []types.Reaction{
				{Emoji: "🤩", Count: 800, UserReacted: true},
			},
		},
		{
			ID:      "104",
			Content: "Setting up the Golden/Black theme for our new client app. Aesthetics matter just as much as functionality. #UIUX #Design",
			Date:    ago(72),
			Views:   2100,
			Author:  channel,
			Media: &types.MediaAttachment{
				Type: types.MediaPhoto,
				URL:  "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?auto=format&fit=crop&w=800&q=80",
			},
		},
		{
			ID:      "105",
			Content: "Should we do a series on Gemini AI integration? 🤖\n\nLet me know by reacting to this post!",
			Date:    ago(96),
			Views:   4500,
			Author:  channel,
			Reactions: []types.Reaction{
				{Emoji: "🔥", Count: 1000, UserReacted: true},
			},
		},
	}
}
