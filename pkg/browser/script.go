package browser

// observerScript is injected into every page before any of its own
// scripts run. It captures form submissions in the capture phase,
// serializing live field values into value attributes so the snapshot
// carries what the user actually typed, and batches subtree mutations
// through a short debounce before notifying the Go side.
const observerScript = `(() => {
	const serializeForm = (form) => {
		const clone = form.cloneNode(true);
		const live = form.querySelectorAll('input, textarea');
		const cloned = clone.querySelectorAll('input, textarea');
		live.forEach((el, i) => {
			if (cloned[i] && typeof el.value === 'string') {
				cloned[i].setAttribute('value', el.value);
			}
		});
		return clone.outerHTML;
	};

	document.addEventListener('submit', (event) => {
		const form = event.target;
		if (!(form instanceof HTMLFormElement)) {
			return;
		}
		const html = serializeForm(form);
		const text = form.innerText || '';
		if (window.__nightjarSubmit) {
			window.__nightjarSubmit(html, text);
		}
	}, true);

	let queued = false;
	const observer = new MutationObserver(() => {
		if (queued) {
			return;
		}
		queued = true;
		setTimeout(() => {
			queued = false;
			if (window.__nightjarMutation) {
				window.__nightjarMutation();
			}
		}, 250);
	});

	const start = () => observer.observe(document.documentElement, {
		childList: true,
		subtree: true,
		characterData: true,
	});
	if (document.documentElement) {
		start();
	} else {
		document.addEventListener('DOMContentLoaded', start);
	}
})();`
