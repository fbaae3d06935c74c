package application

// samplePlaylist is the built-in demo playlist.
const samplePlaylist = `#EXTM3U
#EXTINF:-1 tvg-id="sample1" tvg-logo="https://i.imgur.com/p2LBg1x.png" group-title="News",Sintel (HLS)
https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8
#EXTINF:-1 tvg-id="sample2" tvg-logo="https://i.imgur.com/p2LBg1x.png" group-title="Movies",Big Buck Bunny (MP4)
http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4
`
