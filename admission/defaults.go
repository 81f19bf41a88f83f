package admission

// DefaultDomainBlocklist returns a fresh copy of the exact-match domain
// blocklist: placeholder example domains, localhosts, and a curated list of
// capsules known to be dead or otherwise not worth crawling.
func DefaultDomainBlocklist() map[string]struct{} {
	domains := []string{
		"example.com",
		"example.org",
		"example.net",
		"example.io",
		"example.us",
		"example.eu",
		"example.gov",
		"example.space",
		"localhost",
		"[::1]",
		"gus.guru",
		"ftrv.se",
		"gmi.bacardi55.io",
		"clemat.is",
		"nanako.mooo.com",
		"gluonspace.com",
		"lord.re",
		"thurk.org",
		"git.thebackupbox.net",
		"mikelynch.org",
		"going-flying.com",
		"gemini.rmf-dev.com",
	}
	out := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		out[d] = struct{}{}
	}
	return out
}

// DefaultURLPrefixBlocklist returns a fresh copy of the curated URL-prefix
// blocklist: search proxies, radio streams, web proxies, calculators, news
// mirrors, and other known-problematic capsules.
func DefaultURLPrefixBlocklist() []string {
	return []string{
		"gemini://www.youtube.com/",
		"gemini://tictactoe.lanterne.chilliet.eu",
		"gemini://kamalatta.ddnss.de/",
		"gemini://tweek.zyxxyz.eu/valentina/",
		"gemini://ansi.hrtk.in/",
		"gemini://matrix.kiwifarms.net",
		"gemini://songs.zachdecook.com/song.gmi.php/",
		"gemini://songs.zachdecook.com/chord.svg/",
		"gemini://gemini.zachdecook.com/cgi-bin/ccel.sh",
		"gemini://kwiecien.us/gemcast/",
		"gemini://cadence.moe/chapo/",
		"gemini://nixo.xyz/reply/",
		"gemini://nixo.xyz/notify",
		"gemini://gemini.thebackupbox.net/queryresponse",
		"gemini://gem.garichankar.com/share_audio",
		"gemini://vps01.rdelaage.ovh/",
		"gemini://mastogem.picasoft.net",
		"gemini://runjimmyrunrunyoufuckerrun.com/fonts/",
		"gemini://runjimmyrunrunyoufuckerrun.com/tmp/",
		"gemini://houston.coder.town/search?",
		"gemini://houston.coder.town/search/",
		"gemini://marginalia.nu/search",
		"gemini://geddit.pitr.ca/post?",
		"gemini://geddit.pitr.ca/c/",
		"gemini://geddit.glv.one/post?",
		"gemini://geddit.glv.one/c/",
		"gemini://gemini.marmaladefoo.com/cgi-bin/calc.cgi?",
		"gemini://gemini.circumlunar.space/users/fgaz/calculator/",
		"gemini://acidic.website/cgi-bin/weather.tcl?",
		"gemini://caolan.uk/weather/",
		"gemini://alexschroeder.ch/",
		"gemini://mozz.us/files/gemini-links.gmi",
		"gemini://gem.benscraft.info/mailing-list",
		"gemini://rawtext.club/~sloum/geminilist",
		"gemini://gemini.techrights.org/",
		"gemini://pon.ix.tc/cgi-bin/youtube.cgi?",
		"gemini://pon.ix.tc/youtube/",
		"gemini://taz.de/",
		"gemini://simplynews.metalune.xyz",
		"gemini://illegaldrugs.net/cgi-bin/news.php?",
		"gemini://illegaldrugs.net/cgi-bin/reader",
		"gemini://illegaldrugs.net/cgi-bin/news.php/",
		"gemini://rawtext.club/~sloum/geminews",
		"gemini://gemini.cabestan.tk/hn",
		"gemini://hn.filiuspatris.net/",
		"gemini://schmittstefan.de/de/nachrichten/",
		"gemini://gmi.noulin.net/mobile",
		"gemini://gmi.noulin.net/rfc",
		"gemini://gmi.noulin.net/man",
		"gemini://jpfox.fr/rss/",
		"gemini://dw.schettler.net/",
		"gemini://dioskouroi.xyz/top",
		"gemini://drewdevault.com/cgi-bin/hn.py",
		"gemini://drewdevault.com/cgi-bin/web.sh?",
		"gemini://tobykurien.com/maverick/",
		"gemini://wp.pitr.ca/",
		"gemini://wp.glv.one/",
		"gemini://wikipedia.geminet.org/",
		"gemini://wikipedia.geminet.org:1966",
		"gemini://vault.transjovian.org/",
		"gemini://egsam.pitr.ca/",
		"gemini://egsam.glv.one/",
		"gemini://gemini.conman.org/test",
		"gemini://chat.mozz.us/stream",
		"gemini://chat.mozz.us/submit",
		"gemini://80h.dev/agena/",
		"gemini://astrobotany.mozz.us/",
		"gemini://carboncopy.xyz/cgi-bin/apache.gex/",
		"gemini://gemini.susa.net/cgi-bin/search?",
		"gemini://gemini.susa.net/cgi-bin/twitter?",
		"gemini://gemini.susa.net/cgi-bin/vim-search?",
		"gemini://gemini.susa.net/cgi-bin/links_stu.lua?",
		"gemini://gemini.spam.works/textfiles/",
		"gemini://gemini.spam.works/mirrors/textfiles/",
		"gemini://gemini.spam.works/users/dvn/archive/",
		"gemini://gemini.thebackupbox.net/radio",
		"gemini://higeki.jp/radio",
		"gemini://gemiprox.pollux.casa/",
		"gemini://gemiprox.pollux.casa:1966",
		"gemini://ecs.d2evs.net/proxy/",
		"gemini://gmi.si3t.ch/www-gem/",
		"gemini://orrg.clttr.info/orrg.pl",
		"gemini://gem.denarii.cloud/",
		"gemini://cfdocs.wetterberg.nu/",
		"gemini://godocs.io",
		"gemini://emacswiki.org/",
		"gemini://si3t.ch/code/",
		"gemini://tilde.club/~filip/library/",
		"gemini://gemini.bortzmeyer.org/rfc-mirror/",
		"gemini://chris.vittal.dev/rfcs",
		"gemini://going-flying.com/git/cgi/gemini.git/",
		"gemini://szczezuja.flounder.online/git/",
		"gemini://hellomouse.net/user-pages/handicraftsman/ietf/",
		"gemini://tilde.team/~orichalcumcosmonaut/darcs/website/prod/",
		"gemini://gemini.omarpolo.com/cgi",
		"gemini://gemini.lost-frequencies.eu/posts/archive",
		"gemini://blitter.com/",
		"gemini://ake.crabdance.com:1966/message/",
		"gemini://iceworks.cc/z/",
		"gemini://ake.crabdance.com:1966/channel/",
		"gemini://gemini.autonomy.earth/posts/",
		"gemini://warmedal.se/~antenna",
		"gemini://gemini.rob-bolton.co.uk/songs",
		"gemini://gthudson.xyz/cgi-bin/quietplace.cgi",
		"gemini://futagoza.gamiri.com/gmninkle/",
		"gemini://alexey.shpakovsky.ru/maze",
		"gemini://202x.moe/resonance",
	}
}
