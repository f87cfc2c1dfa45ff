// Package provider recognises video platform URLs and talks to yt-dlp on
// their behalf.
//
// # Registry
//
// The registry is a static, ordered list. Resolve hands back the first
// provider that validates the URL:
//
//	reg := provider.NewRegistry(provider.Options{Limiter: rate.NewLimiter(2, 4)})
//	p, ok := reg.Resolve("https://www.youtube.com/@creator")
//	p.ContentType(url) // model.ContentChannel
//
// Supported platforms: TikTok, YouTube, Facebook, Instagram, Reddit, Twitch,
// Vimeo and X.
//
// # Content types
//
// Each platform classifies URLs by path shape only (video, playlist,
// channel, profile, unknown). No network access is needed for that.
//
// # yt-dlp
//
// Listing, metadata, audio and subtitle calls all go through one yt-dlp
// wrapper. When a platform answers with "Sign in to confirm you're not a
// bot" the wrapper retries with browser cookies in the order zen, firefox,
// chrome, safari, edge and finally without cookies. Other failures surface
// as *ToolError.
//
// Channels are capped at DefaultChannelCap children and profiles at
// DefaultProfileCap, since both are open-ended feeds.
package provider
