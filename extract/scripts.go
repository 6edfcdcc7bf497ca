package extract

import (
	"fmt"
	"strings"

	"github.com/makar2108/telegram-bot/sites"
)

// scrollScript scrolls the document toward the bottom in fixed increments to
// trigger lazy loading, stopping at the ceiling or when the page stops
// growing.
func scrollScript(step, ceiling int) string {
	return fmt.Sprintf(`(async () => {
	await new Promise((resolve) => {
		let totalHeight = 0;
		const distance = %d;
		const timer = setInterval(() => {
			const scrollHeight = document.body.scrollHeight;
			window.scrollBy(0, distance);
			totalHeight += distance;
			if (totalHeight >= scrollHeight || totalHeight > %d) {
				clearInterval(timer);
				resolve();
			}
		}, 120);
	});
})()`, step, ceiling)
}

// nuxtStateScript reads the Nuxt embedded-state gallery array, the fastest
// source of listing photos on Nuxt-built pages.
const nuxtStateScript = `(() => {
	try {
		const nuxt = window.__NUXT__;
		const arr = nuxt && nuxt.data && nuxt.data[0] && nuxt.data[0].shareObject && Array.isArray(nuxt.data[0].shareObject.images)
			? nuxt.data[0].shareObject.images.map(x => x && x.img_obj).filter(Boolean)
			: [];
		return arr;
	} catch (e) { return []; }
})()`

// mainSliderScript grabs the main image-carousel slides before any scrolling
// or clicking happens.
const mainSliderScript = `(() => {
	const urls = new Set();
	const add = u => { if (u) urls.add(String(u)); };
	document.querySelectorAll('.image-carousel__slider-main-wrap .swiper-slide a.image-carousel__main-img').forEach(a => {
		add(a.getAttribute('data-src'));
		const img = a.querySelector('img');
		if (img) add(img.getAttribute('src'));
	});
	return Array.from(urls);
})()`

// cdnHostAlternation builds a regex alternation of every registered site's
// CDN hostnames, dots escaped.
func cdnHostAlternation() string {
	var hosts []string
	for _, site := range sites.All() {
		for _, host := range site.CDNHosts() {
			hosts = append(hosts, strings.ReplaceAll(host, ".", `\.`))
		}
	}
	return strings.Join(hosts, "|")
}

// domCollectScript scans the rendered DOM: img sources and lazy-load
// attributes, the first srcset entry, image-looking anchors, CSS background
// images, and as a catch-all every attribute of every element matched against
// an image-URL or known-CDN pattern.
func domCollectScript() string {
	return fmt.Sprintf(`(() => {
	const urls = new Set();
	const add = (u) => {
		if (!u) return;
		u = String(u).trim();
		if (u.startsWith('//')) u = 'https:' + u;
		urls.add(u);
	};
	const isImg = /([.]jpg|[.]jpeg|[.]png|[.]webp|[.]gif|[.]bmp)([?]|$)/i;
	document.querySelectorAll('img').forEach(img => {
		add(img.getAttribute('src'));
		add(img.getAttribute('data-src'));
		add(img.getAttribute('data-original'));
		add(img.getAttribute('data-lazy'));
		add(img.getAttribute('data-image'));
		add(img.getAttribute('data-src-large'));
		const sets = [img.getAttribute('srcset'), img.getAttribute('data-srcset')].filter(Boolean);
		sets.forEach(ss => {
			const first = String(ss).split(',')[0].trim().split(' ')[0];
			add(first);
		});
	});
	document.querySelectorAll('a').forEach(a => {
		const href = a.getAttribute('href') || '';
		const ds = a.getAttribute('data-src') || '';
		if (isImg.test(href)) add(href);
		if (isImg.test(ds)) add(ds);
	});
	document.querySelectorAll('[style*="background"]').forEach(el => {
		try {
			const bg = getComputedStyle(el).backgroundImage;
			if (bg && bg.includes('url(')) {
				const matches = bg.match(/url[(]("|')?(.*?)\1[)]/g) || [];
				matches.forEach(m => {
					const u = m.replace(/^url[(]("|')?/, '').replace(/("|')?[)]$/, '');
					add(u);
				});
			}
		} catch (e) {}
	});
	const reImg = /(https?:[/][/][^\s'"<>]+[.](?:jpg|jpeg|png|webp|gif|bmp))/ig;
	const reCdn = /(https?:[/][/][^\s'"<>]*(?:%s)[^\s'"<>]*)/ig;
	document.querySelectorAll('*').forEach(el => {
		for (const attr of (el.getAttributeNames ? el.getAttributeNames() : [])) {
			const val = el.getAttribute(attr) || '';
			let m;
			while ((m = reImg.exec(val)) !== null) add(m[1]);
			while ((m = reCdn.exec(val)) !== null) add(m[1]);
		}
	});
	return Array.from(urls);
})()`, cdnHostAlternation())
}

// labelClickScript clicks anything whose visible text looks like a
// photo/gallery tab, in the languages the bot's audience uses.
const labelClickScript = `(() => {
	const texts = ['фото', 'фотографии', 'галерея', 'photos', 'gallery'];
	const clickIfMatch = (el) => {
		try {
			const t = (el.innerText || el.textContent || '').toLowerCase();
			if (texts.some(x => t.includes(x))) el.click();
		} catch (e) {}
	};
	document.querySelectorAll('a,button,li,div,span').forEach(clickIfMatch);
	return true;
})()`

// galleryContainersScript re-scans the usual gallery containers after the
// label clicks may have revealed them.
const galleryContainersScript = `(() => {
	const urls = new Set();
	const add = u => { if (u) urls.add(String(u)); };
	const collect = root => {
		root.querySelectorAll('img').forEach(img => {
			add(img.getAttribute('src'));
			add(img.getAttribute('data-src'));
		});
		root.querySelectorAll('[style*="background"]').forEach(el => {
			try {
				const bg = getComputedStyle(el).backgroundImage;
				if (bg && bg.includes('url(')) {
					const m = bg.match(/url[(]("|')?(.*?)\1[)]/);
					if (m && m[2]) add(m[2]);
				}
			} catch (e) {}
		});
	};
	['.swiper','.swiper-container','.gallery','.photos','.thumbnails'].forEach(sel => {
		document.querySelectorAll(sel).forEach(collect);
	});
	return Array.from(urls);
})()`

// scriptJSONScript walks every script tag: plain image URLs in the text, plus
// a best-effort JSON.parse of array-shaped bodies looking for URL strings and
// URL-valued object fields.
const scriptJSONScript = `(() => {
	const out = [];
	const push = u => { if (u) out.push(String(u)); };
	const isImg = /([.]jpg|[.]jpeg|[.]png|[.]webp|[.]gif|[.]bmp)([?]|$)/i;
	const re = /(https?:[/][/][^\s'"<>]+[.](?:jpg|jpeg|png|webp|gif|bmp))/ig;
	const scripts = Array.from(document.querySelectorAll('script'));
	for (const s of scripts) {
		const t = s.textContent || '';
		let m;
		while ((m = re.exec(t)) !== null) { push(m[1]); }
		try {
			const trimmed = t.trim();
			if (trimmed.startsWith('[') && trimmed.endsWith(']')) {
				const arr = JSON.parse(trimmed);
				if (Array.isArray(arr)) {
					for (const v of arr) {
						if (typeof v === 'string' && isImg.test(v)) push(v);
						if (v && typeof v === 'object') {
							for (const k of Object.keys(v)) {
								const val = v[k];
								if (typeof val === 'string' && isImg.test(val)) push(val);
							}
						}
					}
				}
			}
		} catch (e) {}
	}
	return out;
})()`

// galleryCollectScript reads the currently visible image across the known
// lightbox and slider implementations.
func galleryCollectScript() string {
	quoted := make([]string, len(galleryImageSelectors))
	for i, sel := range galleryImageSelectors {
		quoted[i] = "'" + sel + "'"
	}
	return fmt.Sprintf(`(() => {
	const urls = [];
	const sels = [%s];
	for (const sel of sels) {
		document.querySelectorAll(sel).forEach(img => {
			const src = img.getAttribute('src') || img.getAttribute('data-src');
			if (src) urls.push(String(src));
		});
	}
	return urls;
})()`, strings.Join(quoted, ","))
}

// jsonLDScript returns the first parseable application/ld+json object.
const jsonLDScript = `(() => {
	const scripts = document.querySelectorAll('script[type="application/ld+json"]');
	for (const script of scripts) {
		try {
			return JSON.parse(script.textContent);
		} catch (e) {}
	}
	return null;
})()`

// videoElementsScript collects video and nested source srcs, reaching into
// same-origin frames as far as the browser allows.
const videoElementsScript = `(() => {
	const urls = [];
	const add = u => {
		if (u && (u.startsWith('http://') || u.startsWith('https://'))) urls.push(String(u));
	};
	const collect = doc => {
		doc.querySelectorAll('video').forEach(video => {
			add(video.getAttribute('src'));
			video.querySelectorAll('source').forEach(source => add(source.getAttribute('src')));
		});
	};
	collect(document);
	document.querySelectorAll('iframe').forEach(frame => {
		try {
			if (frame.contentDocument) collect(frame.contentDocument);
		} catch (e) {}
	});
	return urls;
})()`

// iframeSrcScript lists every iframe src for the embed-domain check.
const iframeSrcScript = `(() => {
	const urls = [];
	document.querySelectorAll('iframe').forEach(frame => {
		const src = frame.getAttribute('src');
		if (src) urls.push(String(src));
	});
	return urls;
})()`

// largeImageScript finds the first image that declares itself bigger than an
// icon; used as the photo fallback when no video exists.
const largeImageScript = `(() => {
	const imgs = document.querySelectorAll('img');
	for (const img of imgs) {
		const src = img.getAttribute('src') || img.getAttribute('data-src');
		if (!src || !(src.startsWith('http://') || src.startsWith('https://'))) continue;
		const width = parseInt(img.getAttribute('width') || '0', 10);
		const height = parseInt(img.getAttribute('height') || '0', 10);
		if (width > 100 && height > 100) return src;
	}
	return '';
})()`
